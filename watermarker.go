package docpdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alnah/go-docpdf/internal/fileutil"
	"github.com/alnah/go-docpdf/internal/hints"
)

// Stamp is one text instance placed on a page, centred at the page centre
// plus (DX, DY) and rotated by Rotation degrees about its own centre.
type Stamp struct {
	Text     string
	FontName string
	FontSize int
	Color    string
	Opacity  float64
	Rotation float64
	DX, DY   float64
}

// Compositor reads page geometry and stamps text on top of existing pages.
type Compositor interface {
	PageSizes(rs io.ReadSeeker) ([]PageSize, error)
	// Stamp copies the document from rs to w with stamps[i] drawn over
	// page i (1-based). Page count and content are preserved.
	Stamp(rs io.ReadSeeker, w io.Writer, stamps map[int][]Stamp) error
}

// Compile-time interface check.
var _ Compositor = (*PDFCPUCompositor)(nil)

// Watermarker overlays a translucent text pattern onto every page of a PDF.
type Watermarker struct {
	Config     WatermarkConfig
	Compositor Compositor
	Measure    TextMeasurer
}

// NewWatermarker creates a Watermarker backed by pdfcpu.
func NewWatermarker(cfg WatermarkConfig) *Watermarker {
	return &Watermarker{
		Config:     cfg,
		Compositor: NewPDFCPUCompositor(),
		Measure:    MeasureText,
	}
}

// Plan computes the stamps of every page. Pages are numbered from 1.
func (w *Watermarker) Plan(cfg WatermarkConfig, pages []PageSize) map[int][]Stamp {
	font := cfg.FontName
	if font == "" {
		font = DefaultWatermarkFont
	}
	color := cfg.Color
	if color == "" {
		color = DefaultWatermarkColor
	}

	rotation := NormalizeAngle(cfg.Angle)

	plan := make(map[int][]Stamp, len(pages))
	for i, page := range pages {
		ov := cfg.Layout(page, w.Measure)
		stamps := make([]Stamp, 0, len(ov.Marks))
		for _, m := range ov.Marks {
			dx, dy := ov.PageOffset(m, cfg.Angle)
			stamps = append(stamps, Stamp{
				Text:     cfg.Text,
				FontName: font,
				FontSize: int(ov.FontSize),
				Color:    color,
				Opacity:  cfg.Opacity,
				Rotation: rotation,
				DX:       dx,
				DY:       dy,
			})
		}
		plan[i+1] = stamps
	}
	return plan
}

// Apply writes a copy of input to output with every page overlaid by text
// (the configured text when empty). The output appears atomically: on
// failure it is left untouched, and nothing is created when input is
// missing. A document without pages is copied unchanged.
func (w *Watermarker) Apply(ctx context.Context, input, output, text string) error {
	cfg := w.Config
	if text != "" {
		cfg.Text = text
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(input) // #nosec G304 -- caller-provided path
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInputNotFound, input, err)
	}

	pages, err := w.Compositor.PageSizes(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w: %s: %v", ErrInputNotFound, ErrReadPDF, input, err)
	}

	if len(pages) == 0 {
		if err := fileutil.CopyFileAtomic(input, output); err != nil {
			return fmt.Errorf("%w: %s: %v%s", ErrOutputWrite, output, err, hints.ForOutputDirectory())
		}
		return nil
	}

	plan := w.Plan(cfg, pages)
	if err := ctx.Err(); err != nil {
		return err
	}

	var stampErr error
	err = fileutil.WriteAtomic(output, func(dst io.Writer) error {
		stampErr = w.Compositor.Stamp(bytes.NewReader(data), dst, plan)
		return stampErr
	})
	switch {
	case err == nil:
		return nil
	case stampErr != nil:
		return fmt.Errorf("stamping %s: %w", input, stampErr)
	default:
		return fmt.Errorf("%w: %s: %v%s", ErrOutputWrite, output, err, hints.ForOutputDirectory())
	}
}
