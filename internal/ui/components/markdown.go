package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/ui/theme"
)

// BlockKind distinguishes prose from fenced code.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockCode
)

// Span is a run of inline text.
type Span struct {
	Text string
	Bold bool
}

// Block is one paragraph or one fenced code block.
type Block struct {
	Kind  BlockKind
	Lang  string
	Code  string
	Spans []Span
}

// ParseMarkdown understands the subset tutors write: **bold**, fenced code
// blocks, and blank-line separated paragraphs. Single newlines inside a
// paragraph are kept as line breaks.
func ParseMarkdown(text string) []Block {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var blocks []Block

	for {
		start := strings.Index(text, "```")
		if start < 0 {
			break
		}
		rest := text[start+3:]
		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			break
		}
		end := strings.Index(rest[nl+1:], "```")
		if end < 0 {
			break
		}
		blocks = append(blocks, paragraphs(text[:start])...)
		blocks = append(blocks, Block{
			Kind: BlockCode,
			Lang: strings.TrimSpace(rest[:nl]),
			Code: strings.TrimRight(rest[nl+1:nl+1+end], "\n"),
		})
		text = rest[nl+1+end+3:]
	}
	return append(blocks, paragraphs(text)...)
}

func paragraphs(text string) []Block {
	var out []Block
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.Trim(p, "\n")
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, Block{Kind: BlockParagraph, Spans: spans(p)})
	}
	return out
}

func spans(p string) []Span {
	var out []Span
	for {
		open := strings.Index(p, "**")
		if open < 0 {
			break
		}
		closing := strings.Index(p[open+2:], "**")
		if closing < 0 {
			break
		}
		if open > 0 {
			out = append(out, Span{Text: p[:open]})
		}
		out = append(out, Span{Text: p[open+2 : open+2+closing], Bold: true})
		p = p[open+2+closing+2:]
	}
	if p != "" {
		out = append(out, Span{Text: p})
	}
	return out
}

// Markdown renders text wrapped to width.
func Markdown(text string, width int) string {
	blocks := ParseMarkdown(text)
	rendered := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case BlockCode:
			rendered = append(rendered, theme.Code.Render(b.Code))
		default:
			var sb strings.Builder
			for _, s := range b.Spans {
				if s.Bold {
					sb.WriteString(theme.Bold.Render(s.Text))
				} else {
					sb.WriteString(theme.Body.Render(s.Text))
				}
			}
			rendered = append(rendered, lipgloss.NewStyle().Width(width).Render(sb.String()))
		}
	}
	return strings.Join(rendered, "\n\n")
}
