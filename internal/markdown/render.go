package markdown

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-docpdf/internal/yamlutil"
)

// Sentinel errors for rendering.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrInvalidLength  = errors.New("invalid CSS length")
)

// highlightStyle names the chroma style used for code blocks.
const highlightStyle = "github"

//go:embed style.css
var baseCSS string

// pageTemplate wraps the rendered fragment in a complete HTML5 document.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s
</style>
</head>
<body>
%s%s
</body>
</html>`

// Options controls the page produced by Renderer.ToHTML.
type Options struct {
	Title    string // <title>; empty = document title or "Document"
	Margin   string // CSS length, e.g. "1in"
	FontSize string // CSS length, e.g. "11pt"
	TOC      bool
	TOCDepth int    // deepest heading level listed, 1-6
	TOCTitle string // empty = "Contents"
	BaseDir  string // relative images and links resolve here; empty = as written
}

// Renderer converts Markdown to standalone HTML. Safe for concurrent use.
type Renderer struct {
	md  goldmark.Markdown
	css string
}

// NewRenderer creates a Renderer with GFM, footnotes and syntax highlighting.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
		),
	)
	return &Renderer{md: md, css: baseCSS + highlightCSS()}
}

// highlightCSS returns the stylesheet matching the class names emitted by
// the highlighter.
func highlightCSS() string {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return ""
	}
	return buf.String()
}

// ToHTML renders src (front matter stripped) into a standalone page.
// Goldmark does not take a context, so ctx is only checked up front.
func (r *Renderer) ToHTML(ctx context.Context, src []byte, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pageCSS, err := pageRules(opts)
	if err != nil {
		return "", err
	}

	body := src
	if _, rest, ok := yamlutil.SplitFrontMatter(src); ok {
		body = rest
	}

	root := r.md.Parser().Parse(text.NewReader(body))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, body, root); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	title := opts.Title
	if title == "" {
		title = Inspect(src).Title()
	}
	if title == "" {
		title = "Document"
	}

	content, err := ResolveLinks(buf.String(), opts.BaseDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	toc := ""
	if opts.TOC {
		toc = tocHTML(headings(root, body), opts.TOCDepth, opts.TOCTitle)
	}

	return fmt.Sprintf(pageTemplate, html.EscapeString(title), pageCSS+r.css, toc, content), nil
}

// pageRules builds the @page and body rules from the layout options.
func pageRules(opts Options) (string, error) {
	margin, fontSize := opts.Margin, opts.FontSize
	if margin == "" {
		margin = "1in"
	}
	if fontSize == "" {
		fontSize = "11pt"
	}
	for _, v := range []string{margin, fontSize} {
		if !isCSSLength(v) {
			return "", fmt.Errorf("%w: %q", ErrInvalidLength, v)
		}
	}
	return fmt.Sprintf("@page { size: Letter; margin: %s; }\nbody { font-size: %s; }\n", margin, fontSize), nil
}

// isCSSLength accepts a number followed by a unit, e.g. "1in", "2.5cm".
func isCSSLength(s string) bool {
	num := strings.TrimRight(s, "abcdefghijklmnopqrstuvwxyz%")
	unit := s[len(num):]
	if num == "" || unit == "" || len(unit) > 4 {
		return false
	}
	dot := false
	for _, c := range num {
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

// tocHTML lists the headings up to depth as anchor links.
func tocHTML(hs []Heading, depth int, title string) string {
	if depth < 1 || depth > 6 {
		depth = 3
	}
	if title == "" {
		title = "Contents"
	}

	var b strings.Builder
	n := 0
	for _, h := range hs {
		if h.Level > depth || h.ID == "" {
			continue
		}
		if n == 0 {
			fmt.Fprintf(&b, "<nav class=\"toc\">\n<h1 class=\"toc-title\">%s</h1>\n<ul>\n", html.EscapeString(title))
		}
		fmt.Fprintf(&b, "<li class=\"toc-level-%d\"><a href=\"#%s\">%s</a></li>\n",
			h.Level, html.EscapeString(h.ID), html.EscapeString(h.Text))
		n++
	}
	if n == 0 {
		return ""
	}
	b.WriteString("</ul>\n</nav>\n")
	return b.String()
}
