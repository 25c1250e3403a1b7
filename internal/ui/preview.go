package ui

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/zhubert/secops/internal/payload"
)

// DefaultPreviewStyle is the chroma style used when none is configured.
const DefaultPreviewStyle = "monokai"

// HighlightCode applies syntax highlighting to code using chroma. The lexer
// is picked from filename, falling back to plain text.
func HighlightCode(code, filename, style string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, s, iterator); err != nil {
		return code
	}
	return buf.String()
}

// RenderPayloadPreview renders a payload for the terminal: the preamble
// muted, the content highlighted as filename, and the truncation notice
// as a warning.
func RenderPayloadPreview(p payload.Payload, filename, style string) string {
	var b bytes.Buffer
	b.WriteString(ListMutedStyle.Render(payload.Preamble))
	b.WriteString("\n\n")
	b.WriteString(HighlightCode(p.Content(), filename, style))
	if p.Truncated {
		b.WriteString("\n\n")
		b.WriteString(ToastWarningStyle.Render(payload.TruncationNotice()))
	}
	return b.String()
}
