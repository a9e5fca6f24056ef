package docpdf

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// disableConfigDir keeps pdfcpu from writing its config and font cache
// into the user's config directory.
var disableConfigDir sync.Once

// PDFCPUCompositor implements Compositor with pdfcpu text watermarks.
type PDFCPUCompositor struct {
	conf *model.Configuration
}

// NewPDFCPUCompositor creates a compositor with relaxed validation, which
// accepts the slightly off-spec files produced by common engines.
func NewPDFCPUCompositor() *PDFCPUCompositor {
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPUCompositor{conf: conf}
}

// PageSizes returns the media box dimensions of every page.
func (c *PDFCPUCompositor) PageSizes(rs io.ReadSeeker) ([]PageSize, error) {
	dims, err := api.PageDims(rs, c.conf)
	if err != nil {
		return nil, err
	}
	sizes := make([]PageSize, len(dims))
	for i, d := range dims {
		sizes[i] = PageSize{Width: d.Width, Height: d.Height}
	}
	return sizes, nil
}

// Stamp draws every stamp on top of its page in one pass.
func (c *PDFCPUCompositor) Stamp(rs io.ReadSeeker, w io.Writer, stamps map[int][]Stamp) error {
	m := make(map[int][]*model.Watermark, len(stamps))
	for page, list := range stamps {
		for _, s := range list {
			wm, err := api.TextWatermark(s.Text, s.description(), true, false, types.POINTS)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			m[page] = append(m[page], wm)
		}
	}
	return api.AddWatermarksSliceMap(rs, w, m, c.conf)
}

// description renders s in pdfcpu's watermark description syntax.
// "scalefactor:1 abs" keeps the font size in absolute points.
func (s Stamp) description() string {
	return fmt.Sprintf("fontname:%s, points:%d, scalefactor:1 abs, rotation:%s, opacity:%s, fillcolor:%s, position:c, offset:%s %s",
		s.FontName, s.FontSize, num(s.Rotation), num(s.Opacity), s.Color, num(s.DX), num(s.DY))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MeasureText returns the width of text set in a standard PDF font using
// the font's metrics.
func MeasureText(text, fontName string, size float64) float64 {
	return font.TextWidth(text, fontName, int(size))
}
