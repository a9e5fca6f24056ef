package docpdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-docpdf/internal/fileutil"
	"github.com/alnah/go-docpdf/internal/hints"
	"github.com/alnah/go-docpdf/internal/markdown"
)

// PandocOptions holds the formatting flags passed to pandoc.
type PandocOptions struct {
	PDFEngine string // --pdf-engine (default "xelatex")
	Margin    string // geometry margin (default "1in")
	FontSize  string // body font size (default "11pt")
	TOC       bool
	TOCDepth  int // 1-6 (default 3)
}

// DefaultPandocOptions returns 1in margins, 11pt text and a depth-3 table
// of contents typeset with xelatex.
func DefaultPandocOptions() PandocOptions {
	return PandocOptions{
		PDFEngine: "xelatex",
		Margin:    "1in",
		FontSize:  "11pt",
		TOC:       true,
		TOCDepth:  3,
	}
}

// PandocConverter converts Markdown to PDF by invoking the pandoc CLI.
type PandocConverter struct {
	Runner  CommandRunner
	Options PandocOptions
}

// NewPandocConverter creates a PandocConverter with a real command runner.
func NewPandocConverter(opts PandocOptions) *PandocConverter {
	return &PandocConverter{Runner: &ExecRunner{}, Options: opts}
}

// Args returns the pandoc arguments converting src into dst. A non-empty
// title is set as PDF metadata without adding a title block.
func (c *PandocConverter) Args(src, dst, title string) []string {
	o := c.Options
	def := DefaultPandocOptions()
	if o.PDFEngine == "" {
		o.PDFEngine = def.PDFEngine
	}
	if o.Margin == "" {
		o.Margin = def.Margin
	}
	if o.FontSize == "" {
		o.FontSize = def.FontSize
	}
	if o.TOCDepth == 0 {
		o.TOCDepth = def.TOCDepth
	}

	args := []string{
		src,
		"-o", dst,
		"--pdf-engine=" + o.PDFEngine,
		"-V", "geometry:margin=" + o.Margin,
		"-V", "fontsize=" + o.FontSize,
	}
	if o.TOC {
		args = append(args, "--toc", "--toc-depth="+strconv.Itoa(o.TOCDepth))
	}
	if title != "" {
		args = append(args, "-V", "title-meta="+title)
	}
	return args
}

// Convert typesets src into dst. pandoc writes to a temporary file next to
// dst which replaces dst only when pandoc succeeded.
func (c *PandocConverter) Convert(ctx context.Context, src, dst string) error {
	content, err := os.ReadFile(src) // #nosec G304 -- selected document path
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrConversion, src, err)
	}

	// The document title goes to metadata only when front matter does not
	// already provide one.
	title := ""
	if doc := markdown.Inspect(content); doc.FrontMatterTitle == "" {
		title = doc.Title()
	}

	// pandoc picks the output format from the extension, keep ".pdf" last.
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+strings.TrimSuffix(filepath.Base(dst), ".pdf")+".tmp-*.pdf")
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrConversion, err, hints.ForOutputDirectory())
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	runner := c.Runner
	if runner == nil {
		runner = &ExecRunner{}
	}

	_, stderr, err := runner.Run(ctx, "pandoc", c.Args(src, tmpPath, title)...)
	if err != nil {
		if errors.Is(err, ErrToolNotFound) {
			return fmt.Errorf("%w: %w%s", ErrConversion, err, hints.ForToolNotFound("pandoc"))
		}
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%w: pandoc: %s: %w", ErrConversion, msg, err)
		}
		return fmt.Errorf("%w: pandoc: %w", ErrConversion, err)
	}

	if err := os.Chmod(tmpPath, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrConversion, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("%w: %v%s", ErrConversion, err, hints.ForOutputDirectory())
	}
	return nil
}
