package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-docpdf/internal/yamlutil"
)

// Heading is one entry of a document outline.
type Heading struct {
	Level int
	Text  string
	ID    string // anchor generated by the parser
}

// Document describes a Markdown source.
type Document struct {
	FrontMatterTitle string    // "title" key of the YAML front matter
	Headings         []Heading // in document order
}

// Title returns the front matter title, or the text of the first level-1
// heading, or "".
func (d *Document) Title() string {
	if d.FrontMatterTitle != "" {
		return d.FrontMatterTitle
	}
	for _, h := range d.Headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}

// frontMatter holds the keys read from a document header.
type frontMatter struct {
	Title string `yaml:"title"`
}

// outlineParser only needs heading IDs and GFM block structure.
var outlineParser = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
).Parser()

// Inspect parses src and returns its title and outline. A malformed front
// matter block is ignored rather than reported.
func Inspect(src []byte) *Document {
	doc := &Document{}

	meta, body, ok := yamlutil.SplitFrontMatter(src)
	if ok {
		var fm frontMatter
		if err := yamlutil.Unmarshal(meta, &fm); err == nil {
			doc.FrontMatterTitle = fm.Title
		}
	} else {
		body = src
	}

	root := outlineParser.Parse(text.NewReader(body))
	doc.Headings = headings(root, body)
	return doc
}

// headings collects the outline of a parsed tree.
func headings(root ast.Node, source []byte) []Heading {
	var out []Heading
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		heading := Heading{Level: h.Level, Text: nodeText(h, source)}
		if id, found := h.AttributeString("id"); found {
			if b, isBytes := id.([]byte); isBytes {
				heading.ID = string(b)
			}
		}
		out = append(out, heading)
		return ast.WalkSkipChildren, nil
	})
	return out
}

// nodeText concatenates the inline text below n.
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.AutoLink:
			buf.Write(t.Label(source))
		}
		return ast.WalkContinue, nil
	})
	return string(bytes.TrimSpace(buf.Bytes()))
}
