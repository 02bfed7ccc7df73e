package collector

import (
	"context"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"sort"
	"strings"
	"time"
	"tldr/pkg/api/discord"
	"tldr/pkg/api/text"
	"unicode/utf8"
)

const pageSize = 100

type History interface {
	ChannelMessages(channelID, afterID string, limit int) ([]*discordgo.Message, error)
}

type Collection struct {
	Messages   []string
	TotalChars int
	Truncated  bool
}

// Include reports whether a message is eligible for summarization.
func Include(m *discordgo.Message) bool {
	if m.Author == nil || m.Author.Bot {
		return false
	}
	if len(m.Content) == 0 || len(m.Attachments) > 0 {
		return false
	}
	return !strings.HasPrefix(m.Content, "/") &&
		!strings.HasPrefix(m.Content, "http") &&
		!strings.HasPrefix(m.Content, "www")
}

// Collect reads the channel history after cutoff, oldest first, until the raw character count of
// the included messages reaches maxChars or the history runs out.
func Collect(ctx context.Context, source History, channelID string, cutoff time.Time, maxChars int) (*Collection, error) {
	c := &Collection{Messages: make([]string, 0)}
	after := discord.SnowflakeFromTime(cutoff)

	for c.TotalChars < maxChars {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := source.ChannelMessages(channelID, after, pageSize)
		if err != nil {
			return nil, fmt.Errorf("error reading channel history, %w", err)
		}
		if len(page) == 0 {
			break
		}

		sort.SliceStable(page, func(i, j int) bool {
			return page[i].Timestamp.Before(page[j].Timestamp)
		})

		for _, m := range page {
			if c.TotalChars >= maxChars {
				break
			}
			if !m.Timestamp.After(cutoff) || !Include(m) {
				continue
			}

			c.Messages = append(c.Messages, fmt.Sprintf("%s: %s", author(m), text.Sanitize(m.Content)))
			c.TotalChars += utf8.RuneCountInString(m.Content)
		}

		after = page[len(page)-1].ID
		if len(page) < pageSize {
			break
		}
	}

	c.Truncated = c.TotalChars > maxChars
	return c, nil
}

func author(m *discordgo.Message) string {
	return m.Author.String()
}

type Verdict int

const (
	Nothing Verdict = iota
	NotEnough
	Proceed
)

func (v Verdict) String() string {
	switch v {
	case Nothing:
		return "nothing"
	case NotEnough:
		return "not_enough"
	default:
		return "proceed"
	}
}

// Evaluate applies the minimum size policy to a collected character count.
func Evaluate(totalChars, minChars int) Verdict {
	switch {
	case totalChars <= 0:
		return Nothing
	case totalChars < minChars:
		return NotEnough
	default:
		return Proceed
	}
}
