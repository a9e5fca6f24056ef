package docpdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-docpdf/internal/fileutil"
	"github.com/alnah/go-docpdf/internal/hints"
	"github.com/alnah/go-docpdf/internal/markdown"
)

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pdfRenderer = (*rodRenderer)(nil)

// US Letter, in inches. Margins come from the stylesheet's @page rule.
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
)

// DefaultTimeout bounds page loading in the browser.
const DefaultTimeout = 30 * time.Second

// rodRenderer implements pdfRenderer using go-rod.
// Rod downloads Chromium on first run if none is installed.
type rodRenderer struct {
	mu      sync.Mutex
	browser *rod.Browser
	timeout time.Duration
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	// Pre-installed browser (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// No sandbox in CI and containers
	if hints.InCI() || os.Getenv("ROD_NO_SANDBOX") == "1" || hints.IsInContainer() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}
	r.browser = browser
	return browser, nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

// RenderFromFile opens a local HTML file in a new tab and prints it to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer page.Close()
	page = page.Context(ctx)

	timeout := r.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:        floatPtr(paperWidthInches),
		PaperHeight:       floatPtr(paperHeightInches),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// ChromeOptions holds the layout of documents printed by headless Chrome.
type ChromeOptions struct {
	Margin   string // CSS length (default "1in")
	FontSize string // CSS length (default "11pt")
	TOC      bool
	TOCDepth int // 1-6 (default 3)
}

// ChromeOption configures a ChromeConverter.
type ChromeOption func(*ChromeConverter)

// WithTimeout sets the page load timeout.
func WithTimeout(d time.Duration) ChromeOption {
	return func(c *ChromeConverter) {
		if r, ok := c.renderer.(*rodRenderer); ok {
			r.timeout = d
		}
	}
}

// withRenderer replaces the browser (tests).
func withRenderer(r pdfRenderer) ChromeOption {
	return func(c *ChromeConverter) { c.renderer = r }
}

// ChromeConverter renders Markdown to HTML with goldmark and prints it to
// PDF with headless Chrome. One browser is shared by all conversions;
// call Close when done.
type ChromeConverter struct {
	Options  ChromeOptions
	html     *markdown.Renderer
	renderer pdfRenderer
}

// NewChromeConverter creates a ChromeConverter. The browser starts on the
// first conversion.
func NewChromeConverter(opts ChromeOptions, options ...ChromeOption) *ChromeConverter {
	c := &ChromeConverter{
		Options:  opts,
		html:     markdown.NewRenderer(),
		renderer: &rodRenderer{timeout: DefaultTimeout},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Convert renders src and writes the PDF atomically to dst.
func (c *ChromeConverter) Convert(ctx context.Context, src, dst string) error {
	content, err := os.ReadFile(src) // #nosec G304 -- selected document path
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrConversion, src, err)
	}

	page, err := c.html.ToHTML(ctx, content, markdown.Options{
		Margin:   c.Options.Margin,
		FontSize: c.Options.FontSize,
		TOC:      c.Options.TOC,
		TOCDepth: c.Options.TOCDepth,
		BaseDir:  filepath.Dir(src),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConversion, err)
	}

	htmlPath, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConversion, err)
	}
	defer cleanup()

	pdf, err := c.renderer.RenderFromFile(ctx, htmlPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConversion, err)
	}

	err = fileutil.WriteAtomic(dst, func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %w: %v%s", ErrConversion, ErrOutputWrite, err, hints.ForOutputDirectory())
	}
	return nil
}

// Close releases the browser.
func (c *ChromeConverter) Close() error {
	if c.renderer == nil {
		return nil
	}
	return c.renderer.Close()
}
