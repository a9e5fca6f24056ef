package docpdf

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// WatermarkMode selects how the text is laid out on a page.
type WatermarkMode string

const (
	ModeTiled    WatermarkMode = "tiled"    // (2R+1)x(2R+1) grid covering the page
	ModeCentered WatermarkMode = "centered" // one instance through the page centre
)

// Watermark defaults.
const (
	DefaultWatermarkAngle = 45.0
	DefaultWatermarkFont  = "Helvetica-Bold"
	DefaultWatermarkColor = "#808080"
	DefaultPreset         = "classic"

	// capHeightRatio approximates the cap height of the standard sans fonts
	// as a fraction of the font size.
	capHeightRatio = 0.72
)

// hexColorPattern validates hex color codes (#RGB or #RRGGBB).
var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// WatermarkConfig describes the overlay stamped on every page.
type WatermarkConfig struct {
	Text     string
	Mode     WatermarkMode
	Opacity  float64 // 0 (invisible) to 1 (opaque)
	Angle    float64 // degrees, counter-clockwise
	FontName string  // standard PDF font
	Color    string  // hex

	// FontSize fixes the size in points. When zero the size follows the
	// page: min(width/FontDivisor, MaxFontSize).
	FontSize    float64
	FontDivisor float64
	MaxFontSize float64

	// Tiled mode only. Zero spacings derive from the font size.
	GridRadius int
	SpacingX   float64
	SpacingY   float64
}

// presets are the historical watermark variants.
var presets = map[string]WatermarkConfig{
	"classic":  {Mode: ModeTiled, FontSize: 40, Opacity: 0.15, GridRadius: 2, SpacingX: 300, SpacingY: 200},
	"dense":    {Mode: ModeTiled, FontDivisor: 20, MaxFontSize: 50, Opacity: 0.12, GridRadius: 3},
	"sparse":   {Mode: ModeTiled, FontDivisor: 18, MaxFontSize: 55, Opacity: 0.18, GridRadius: 1, SpacingX: 300, SpacingY: 200},
	"bold":     {Mode: ModeTiled, FontDivisor: 15, MaxFontSize: 60, Opacity: 0.25, GridRadius: 2},
	"centered": {Mode: ModeCentered, FontDivisor: 15, MaxFontSize: 60, Opacity: 0.25},
	"subtle":   {Mode: ModeCentered, FontDivisor: 20, MaxFontSize: 50, Opacity: 0.12},
}

// Preset returns the named preset with angle, font and color defaults
// filled in. An empty name selects DefaultPreset.
func Preset(name string) (WatermarkConfig, error) {
	if name == "" {
		name = DefaultPreset
	}
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		return WatermarkConfig{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	p.Angle = DefaultWatermarkAngle
	p.FontName = DefaultWatermarkFont
	p.Color = DefaultWatermarkColor
	return p, nil
}

// PresetNames lists the preset names in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the configuration. Text is required.
func (c *WatermarkConfig) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrInvalidWatermark)
	}
	if strings.ContainsAny(c.Text, "\n\r") {
		return fmt.Errorf("%w: text must be a single line", ErrInvalidWatermark)
	}
	switch c.Mode {
	case ModeTiled, ModeCentered:
	default:
		return fmt.Errorf("%w: mode %q (must be tiled or centered)", ErrInvalidWatermark, c.Mode)
	}
	if math.IsNaN(c.Opacity) || c.Opacity < 0 || c.Opacity > 1 {
		return fmt.Errorf("%w: opacity must be between 0 and 1, got %v", ErrInvalidWatermark, c.Opacity)
	}
	if math.IsNaN(c.Angle) || c.Angle < -360 || c.Angle > 360 {
		return fmt.Errorf("%w: angle must be between -360 and 360, got %v", ErrInvalidWatermark, c.Angle)
	}
	if c.FontSize < 0 {
		return fmt.Errorf("%w: fontSize must not be negative", ErrInvalidWatermark)
	}
	if c.FontSize == 0 && (c.FontDivisor <= 0 || c.MaxFontSize <= 0) {
		return fmt.Errorf("%w: fontDivisor and maxFontSize must be positive when fontSize is not set", ErrInvalidWatermark)
	}
	if c.GridRadius < 0 {
		return fmt.Errorf("%w: gridRadius must not be negative", ErrInvalidWatermark)
	}
	if c.SpacingX < 0 || c.SpacingY < 0 {
		return fmt.Errorf("%w: spacing must not be negative", ErrInvalidWatermark)
	}
	if c.Color != "" && !hexColorPattern.MatchString(c.Color) {
		return fmt.Errorf("%w: color %q (must be #RGB or #RRGGBB)", ErrInvalidWatermark, c.Color)
	}
	return nil
}

// PageSize is a page's width and height in points.
type PageSize struct {
	Width  float64
	Height float64
}

// TextMeasurer returns the advance width of text set in font at size points.
type TextMeasurer func(text, font string, size float64) float64

// Mark is one drawn text instance. X, Y is the baseline origin in the
// rotated frame centred on the page.
type Mark struct {
	X, Y float64
}

// Overlay is the layout of the watermark on one page.
type Overlay struct {
	FontSize  float64
	TextWidth float64
	Marks     []Mark
}

// FontSizeFor returns the font size used on page, rounded to a whole point.
func (c *WatermarkConfig) FontSizeFor(page PageSize) float64 {
	size := c.FontSize
	if size == 0 {
		size = math.Min(page.Width/c.FontDivisor, c.MaxFontSize)
	}
	return math.Max(1, math.Round(size))
}

// Layout places the watermark instances for page. The frame is translated
// to the page centre and rotated by Angle; centered mode draws one instance
// whose horizontal midpoint is the origin, tiled mode draws (2R+1)^2
// instances on a SpacingX by SpacingY grid.
func (c *WatermarkConfig) Layout(page PageSize, measure TextMeasurer) Overlay {
	fs := c.FontSizeFor(page)
	font := c.FontName
	if font == "" {
		font = DefaultWatermarkFont
	}
	tw := measure(c.Text, font, fs)

	ov := Overlay{FontSize: fs, TextWidth: tw}

	if c.Mode == ModeCentered {
		ov.Marks = []Mark{{X: -tw / 2, Y: 0}}
		return ov
	}

	sx, sy := c.SpacingX, c.SpacingY
	if sx == 0 {
		sx = tw + 2*fs
	}
	if sy == 0 {
		sy = 4 * fs
	}

	r := c.GridRadius
	ov.Marks = make([]Mark, 0, (2*r+1)*(2*r+1))
	for i := -r; i <= r; i++ {
		for j := -r; j <= r; j++ {
			ov.Marks = append(ov.Marks, Mark{X: float64(i) * sx, Y: float64(j) * sy})
		}
	}
	return ov
}

// NormalizeAngle maps degrees into (-180, 180], the rotation range PDF
// stamping accepts. The direction of the rotation is unchanged.
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	switch {
	case a > 180:
		a -= 360
	case a <= -180:
		a += 360
	}
	return a
}

// Center returns the midpoint of m's text box in the rotated frame.
func (o Overlay) Center(m Mark) (x, y float64) {
	return m.X + o.TextWidth/2, m.Y + capHeightRatio*o.FontSize/2
}

// PageOffset returns the displacement from the page centre to the midpoint
// of m's text box, in unrotated page coordinates.
func (o Overlay) PageOffset(m Mark, angle float64) (dx, dy float64) {
	x, y := o.Center(m)
	sin, cos := math.Sincos(angle * math.Pi / 180)
	return x*cos - y*sin, x*sin + y*cos
}
