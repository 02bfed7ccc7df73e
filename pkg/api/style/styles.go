package style

const (
	StyleBold      = "**"
	StyleItalics   = "*"
	StyleUnderline = "__"
	StyleCode      = "`"
	StyleCodeBlock = "```"
)

func Bold(s string) string {
	return StyleBold + s + StyleBold
}

func Italics(s string) string {
	return StyleItalics + s + StyleItalics
}

func Underline(s string) string {
	return StyleUnderline + s + StyleUnderline
}

func Code(s string) string {
	return StyleCode + s + StyleCode
}

func CodeBlock(s string) string {
	return StyleCodeBlock + s + StyleCodeBlock
}

// CodeBlockOverhead is the number of characters CodeBlock adds around its content.
const CodeBlockOverhead = 2 * len(StyleCodeBlock)
