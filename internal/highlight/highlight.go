// Package highlight adapts the chroma tokenizer to the narrow interface
// the rest of the tool needs: (text, filename) in, HTML fragment out.
package highlight

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
// A light theme keeps the output print-friendly.
const DefaultStyle = "github"

const tabWidth = 4

// Highlighter renders source text as CSS-class-based HTML fragments.
// One Highlighter is shared across every file in a run, so the markup
// and stylesheet stay consistent for the whole document.
type Highlighter struct {
	style       *chroma.Style
	lineNumbers bool
}

// New creates a Highlighter using the named chroma style. Unknown style
// names fall back to the chroma default rather than failing the run.
func New(styleName string, lineNumbers bool) *Highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	return &Highlighter{style: style, lineNumbers: lineNumbers}
}

// Fragment highlights source text. The lexer is chosen by filename,
// then by the language hint (an enry language name), then by content
// analysis, then falls back to plain text; an unrecognized file type
// never fails the run. anchorPrefix namespaces the per-line anchors so
// several files can share one document.
func (h *Highlighter) Fragment(source, filename, language, anchorPrefix string) (string, error) {
	lexer := lexers.Match(filename)
	if lexer == nil && language != "" {
		lexer = lexers.Get(language)
	}

	if lexer == nil {
		lexer = lexers.Analyse(source)
	}

	if lexer == nil {
		lexer = lexers.Fallback
	}

	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		// Degrade to an escaped pre block rather than dropping the file.
		return plainFragment(source), nil
	}

	var buf bytes.Buffer

	formatErr := h.formatter(anchorPrefix).Format(&buf, h.style, iterator)
	if formatErr != nil {
		return "", fmt.Errorf("format %s: %w", filename, formatErr)
	}

	return buf.String(), nil
}

// StylesheetCSS returns the token color rules for the shared document
// stylesheet.
func (h *Highlighter) StylesheetCSS() (string, error) {
	var buf bytes.Buffer

	err := h.formatter("").WriteCSS(&buf, h.style)
	if err != nil {
		return "", fmt.Errorf("write css: %w", err)
	}

	return buf.String(), nil
}

// formatter builds the HTML formatter. Line anchors are a construction
// option in chroma, so the formatter is rebuilt per fragment with the
// shared settings.
func (h *Highlighter) formatter(anchorPrefix string) *chromahtml.Formatter {
	opts := []chromahtml.Option{
		chromahtml.WithClasses(true),
		chromahtml.WithAllClasses(true),
		chromahtml.TabWidth(tabWidth),
	}

	if h.lineNumbers {
		opts = append(opts,
			chromahtml.WithLineNumbers(true),
			chromahtml.LineNumbersInTable(true),
		)

		if anchorPrefix != "" {
			opts = append(opts, chromahtml.WithLinkableLineNumbers(true, anchorPrefix))
		}
	}

	return chromahtml.New(opts...)
}

func plainFragment(source string) string {
	var b strings.Builder

	b.WriteString(`<div class="chroma"><pre><code>`)
	b.WriteString(html.EscapeString(source))
	b.WriteString("</code></pre></div>\n")

	return b.String()
}
