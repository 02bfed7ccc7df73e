package jobs

import (
	"strings"
	"tldr/pkg/api/style"
	"unicode/utf8"
)

// Chunk packs items, one per line, into code blocks of at most limit characters including the
// fences. Blocks break between items; an item too long for a block of its own is split.
func Chunk(items []string, limit int) []string {
	capacity := limit - style.CodeBlockOverhead
	if capacity < 1 {
		capacity = 1
	}

	blocks := make([]string, 0)
	current := make([]string, 0)
	size := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		blocks = append(blocks, style.CodeBlock(strings.Join(current, "\n")))
		current = current[:0]
		size = 0
	}

	for _, item := range items {
		for _, piece := range split(item, capacity) {
			n := utf8.RuneCountInString(piece)
			extra := n
			if len(current) > 0 {
				extra++
			}

			if size+extra > capacity {
				flush()
				extra = n
			}

			current = append(current, piece)
			size += extra
		}
	}
	flush()

	return blocks
}

func split(s string, capacity int) []string {
	if utf8.RuneCountInString(s) <= capacity {
		return []string{s}
	}

	pieces := make([]string, 0)
	runes := []rune(s)
	for len(runes) > capacity {
		pieces = append(pieces, string(runes[:capacity]))
		runes = runes[capacity:]
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}
