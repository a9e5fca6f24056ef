package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-docpdf/internal/fileutil"
	"github.com/alnah/go-docpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength          = 4096
	MaxRevisionLength      = 255 // git ref names
	MaxExtensionLength     = 16  // ".markdown"
	MaxEngineLength        = 20  // "xelatex", "lualatex"
	MaxDimensionLength     = 16  // "1in", "2.5cm", "11pt"
	MaxWatermarkTextLength = 100 // "CONFIDENTIAL - INTERNAL USE ONLY"
	MaxColorLength         = 20  // "#808080"
	MaxFontNameLength      = 64  // "Helvetica-Bold"
	MaxSuffixLength        = 64  // "-watermarked"
	MaxWorkers             = 32
)

// Engines accepted by convert.engine.
const (
	EnginePandoc = "pandoc"
	EngineChrome = "chrome"
)

// Config holds all configuration for a docpdf run.
type Config struct {
	Selector  SelectorConfig  `yaml:"selector"`
	Convert   ConvertConfig   `yaml:"convert"`
	Watermark WatermarkConfig `yaml:"watermark"`
}

// SelectorConfig defines how changed documents are found.
type SelectorConfig struct {
	DocRoot   string `yaml:"docRoot"`   // Document root (default: "doc")
	Extension string `yaml:"extension"` // Document extension (default: ".md")
	BaseRev   string `yaml:"baseRev"`   // Diff base (default: "HEAD~1")
	HeadRev   string `yaml:"headRev"`   // Diff head (default: "HEAD")
	Pathspec  string `yaml:"pathspec"`  // Empty = ":(glob)<docRoot>/**/*<extension>"
}

// ConvertConfig defines document conversion options.
type ConvertConfig struct {
	Engine      string `yaml:"engine"`      // "pandoc" or "chrome" (default: "pandoc")
	PDFEngine   string `yaml:"pdfEngine"`   // pandoc --pdf-engine (default: "xelatex")
	Margin      string `yaml:"margin"`      // Page margin (default: "1in")
	FontSize    string `yaml:"fontSize"`    // Body font size (default: "11pt")
	TOC         bool   `yaml:"toc"`         // Table of contents (default: true)
	TOCDepth    int    `yaml:"tocDepth"`    // 1-6 (default: 3)
	Workers     int    `yaml:"workers"`     // 0 = auto (default: 1)
	Timeout     string `yaml:"timeout"`     // Per-file timeout, e.g. "2m" (empty = none)
	FailOnError bool   `yaml:"failOnError"` // Non-zero exit when a file fails
}

// WatermarkConfig defines the PDF overlay. Zero or nil fields fall back to
// the selected preset.
type WatermarkConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Text        string   `yaml:"text"`
	Preset      string   `yaml:"preset"`      // classic, dense, sparse, bold, centered, subtle
	Mode        string   `yaml:"mode"`        // "tiled" or "centered"
	Opacity     *float64 `yaml:"opacity"`     // 0.0 to 1.0
	Angle       *float64 `yaml:"angle"`       // Degrees counter-clockwise
	Color       string   `yaml:"color"`       // Hex color
	Font        string   `yaml:"font"`        // Standard PDF font name
	FontSize    int      `yaml:"fontSize"`    // Fixed size in points
	FontDivisor float64  `yaml:"fontDivisor"` // Size = min(width/divisor, maxFontSize)
	MaxFontSize float64  `yaml:"maxFontSize"`
	GridRadius  *int     `yaml:"gridRadius"` // Tiled grid is (2R+1)x(2R+1)
	SpacingX    float64  `yaml:"spacingX"`   // Horizontal pitch in points
	SpacingY    float64  `yaml:"spacingY"`   // Vertical pitch in points
	Suffix      string   `yaml:"suffix"`     // Appended to the PDF base name (empty = in place)
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	// Selector
	if err := validateFieldLength("selector.docRoot", c.Selector.DocRoot, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("selector.extension", c.Selector.Extension, MaxExtensionLength); err != nil {
		return err
	}
	if err := validateFieldLength("selector.baseRev", c.Selector.BaseRev, MaxRevisionLength); err != nil {
		return err
	}
	if err := validateFieldLength("selector.headRev", c.Selector.HeadRev, MaxRevisionLength); err != nil {
		return err
	}
	if err := validateFieldLength("selector.pathspec", c.Selector.Pathspec, MaxPathLength); err != nil {
		return err
	}
	if strings.HasPrefix(c.Selector.BaseRev, "-") || strings.HasPrefix(c.Selector.HeadRev, "-") {
		return fmt.Errorf("%w: selector revisions must not start with '-'", ErrInvalidValue)
	}

	// Convert
	switch c.Convert.Engine {
	case "", EnginePandoc, EngineChrome:
	default:
		return fmt.Errorf("%w: convert.engine %q (must be pandoc or chrome)", ErrInvalidValue, c.Convert.Engine)
	}
	if err := validateFieldLength("convert.pdfEngine", c.Convert.PDFEngine, MaxEngineLength); err != nil {
		return err
	}
	if err := validateFieldLength("convert.margin", c.Convert.Margin, MaxDimensionLength); err != nil {
		return err
	}
	if err := validateFieldLength("convert.fontSize", c.Convert.FontSize, MaxDimensionLength); err != nil {
		return err
	}
	if c.Convert.TOCDepth != 0 && (c.Convert.TOCDepth < 1 || c.Convert.TOCDepth > 6) {
		return fmt.Errorf("%w: convert.tocDepth must be between 1 and 6, got %d", ErrInvalidValue, c.Convert.TOCDepth)
	}
	if c.Convert.Workers < 0 || c.Convert.Workers > MaxWorkers {
		return fmt.Errorf("%w: convert.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Convert.Workers)
	}
	if c.Convert.Timeout != "" {
		d, err := time.ParseDuration(c.Convert.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: convert.timeout %q", ErrInvalidValue, c.Convert.Timeout)
		}
	}

	// Watermark
	wm := c.Watermark
	if wm.Enabled && wm.Text == "" {
		return fmt.Errorf("%w: watermark.text required when watermark is enabled", ErrInvalidValue)
	}
	if err := validateFieldLength("watermark.text", wm.Text, MaxWatermarkTextLength); err != nil {
		return err
	}
	if err := validateFieldLength("watermark.color", wm.Color, MaxColorLength); err != nil {
		return err
	}
	if err := validateFieldLength("watermark.font", wm.Font, MaxFontNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("watermark.suffix", wm.Suffix, MaxSuffixLength); err != nil {
		return err
	}
	if strings.ContainsAny(wm.Suffix, "/\\\x00") {
		return fmt.Errorf("%w: watermark.suffix must not contain path separators", ErrInvalidValue)
	}
	if wm.Opacity != nil && (*wm.Opacity < 0 || *wm.Opacity > 1) {
		return fmt.Errorf("%w: watermark.opacity must be between 0 and 1, got %.2f", ErrInvalidValue, *wm.Opacity)
	}
	if wm.GridRadius != nil && *wm.GridRadius < 0 {
		return fmt.Errorf("%w: watermark.gridRadius must be >= 0, got %d", ErrInvalidValue, *wm.GridRadius)
	}
	if wm.FontSize < 0 || wm.FontDivisor < 0 || wm.MaxFontSize < 0 || wm.SpacingX < 0 || wm.SpacingY < 0 {
		return fmt.Errorf("%w: watermark sizes and spacings must not be negative", ErrInvalidValue)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the settings of the historical CI scripts:
// documents under doc/, diffed against the previous commit, converted with
// pandoc and xelatex using 1in margins, 11pt text and a depth-3 TOC.
func DefaultConfig() *Config {
	return &Config{
		Selector: SelectorConfig{
			DocRoot:   "doc",
			Extension: ".md",
			BaseRev:   "HEAD~1",
			HeadRev:   "HEAD",
		},
		Convert: ConvertConfig{
			Engine:    EnginePandoc,
			PDFEngine: "xelatex",
			Margin:    "1in",
			FontSize:  "11pt",
			TOC:       true,
			TOCDepth:  3,
			Workers:   1,
		},
		Watermark: WatermarkConfig{Enabled: false},
	}
}

// LoadConfig loads configuration from a file path or config name, layered
// over DefaultConfig. If nameOrPath contains a path separator, it's treated
// as a file path. Otherwise, it's searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// CandidatePaths lists where a config name is looked up, in search order:
// current directory first, then the user config directory, each with
// .yaml before .yml.
func CandidatePaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-docpdf", name+ext))
		}
	}

	return paths
}

// resolveConfigPath searches for a config file by name in CandidatePaths.
func resolveConfigPath(name string) (string, error) {
	candidates := CandidatePaths(name)
	for _, p := range candidates {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(candidates, ", "))
}
