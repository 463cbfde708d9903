// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromaHTML "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/reportchat/internal/compose"
	"github.com/jeranaias/reportchat/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to a standalone HTML page with
// syntax-highlighted code blocks.
type HTMLExporter struct {
	opts *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{opts: opts}
}

// Export converts a transcript to HTML.
func (e *HTMLExporter) Export(tr *Transcript) ([]byte, error) {
	if len(tr.Messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	dark := e.opts.Theme != "light"

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", htmlEscape(tr.title())))
	sb.WriteString("<style>\n")
	sb.WriteString(pageCSS(dark))
	sb.WriteString("</style>\n</head>\n<body>\n")

	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", htmlEscape(tr.title())))

	if e.opts.IncludeMetadata {
		sb.WriteString("<div class=\"meta\">\n")
		if tr.UserName != "" {
			sb.WriteString(fmt.Sprintf("<span>%s</span>", htmlEscape(tr.UserName)))
		}
		if tr.UserEmail != "" {
			sb.WriteString(fmt.Sprintf(" <span>&lt;%s&gt;</span>", htmlEscape(tr.UserEmail)))
		}
		if created := tr.CreatedAt(); !created.IsZero() {
			sb.WriteString(fmt.Sprintf(" <span>%s</span>", formatTimestamp(created)))
		}
		sb.WriteString("\n</div>\n")
	}

	for _, msg := range tr.Messages {
		cls := "assistant"
		if msg.Role == model.RoleUser {
			cls = "user"
		}
		sb.WriteString(fmt.Sprintf("<div class=\"msg %s\">\n", cls))
		sb.WriteString(fmt.Sprintf("<div class=\"role\">%s", htmlEscape(msg.Role.DisplayName())))
		if e.opts.IncludeTimestamps && !msg.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf(" <span class=\"ts\">%s</span>", formatShortTimestamp(msg.Timestamp)))
		}
		sb.WriteString("</div>\n")
		sb.WriteString(renderContent(msg.Content, dark))
		sb.WriteString("</div>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String()), nil
}

// FileExtension returns ".html".
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the HTML MIME type.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

var _ Exporter = (*HTMLExporter)(nil)

// =============================================================================
// CONTENT RENDERING
// =============================================================================

// renderContent converts message markdown to HTML. Fenced code blocks
// are syntax highlighted; everything between fences goes through the
// line-oriented markdown renderer.
func renderContent(content string, dark bool) string {
	lines := strings.Split(content, "\n")
	var sb strings.Builder
	var prose []string
	var codeLines []string
	var language string
	inCodeBlock := false

	flushProse := func() {
		if len(prose) == 0 {
			return
		}
		sb.WriteString(compose.RenderHTML(strings.Join(prose, "\n")))
		sb.WriteString("\n")
		prose = nil
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			if inCodeBlock {
				flushCode(&sb, strings.Join(codeLines, "\n"), language, dark)
				codeLines = nil
				language = ""
				inCodeBlock = false
			} else {
				flushProse()
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inCodeBlock = true
			}
		} else if inCodeBlock {
			codeLines = append(codeLines, line)
		} else {
			prose = append(prose, line)
		}
	}

	// Unclosed fence: treat the remainder as code.
	if inCodeBlock && len(codeLines) > 0 {
		flushCode(&sb, strings.Join(codeLines, "\n"), language, dark)
	}
	flushProse()

	return sb.String()
}

// flushCode writes a highlighted code block, falling back to an escaped
// <pre> when highlighting fails.
func flushCode(sb *strings.Builder, code, language string, dark bool) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := "github"
	if dark {
		styleName = "monokai"
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := chromaHTML.New(chromaHTML.WithClasses(false))

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		sb.WriteString("<pre><code>" + htmlEscape(code) + "</code></pre>\n")
		return
	}
	if err := formatter.Format(sb, style, iterator); err != nil {
		sb.WriteString("<pre><code>" + htmlEscape(code) + "</code></pre>\n")
		return
	}
	sb.WriteString("\n")
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func htmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
	)
	return replacer.Replace(s)
}

// pageCSS returns the inline stylesheet for the export page.
func pageCSS(dark bool) string {
	if dark {
		return `body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; background: #1e1e2e; color: #cdd6f4; }
.meta { color: #a6adc8; margin-bottom: 1.5rem; }
.msg { margin: 1rem 0; padding: 0.75rem 1rem; border-radius: 8px; }
.msg.user { background: #313244; }
.msg.assistant { background: #262637; }
.role { font-weight: 600; margin-bottom: 0.5rem; }
.ts { font-weight: 400; color: #a6adc8; font-size: 0.8em; }
pre { overflow-x: auto; padding: 0.75rem; border-radius: 6px; }
code { font-family: ui-monospace, monospace; }
`
	}
	return `body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; background: #ffffff; color: #1f2328; }
.meta { color: #57606a; margin-bottom: 1.5rem; }
.msg { margin: 1rem 0; padding: 0.75rem 1rem; border-radius: 8px; }
.msg.user { background: #f0f3f6; }
.msg.assistant { background: #f6f8fa; }
.role { font-weight: 600; margin-bottom: 0.5rem; }
.ts { font-weight: 400; color: #57606a; font-size: 0.8em; }
pre { overflow-x: auto; padding: 0.75rem; border-radius: 6px; background: #f6f8fa; }
code { font-family: ui-monospace, monospace; }
`
}
