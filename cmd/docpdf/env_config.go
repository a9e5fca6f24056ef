package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-docpdf/internal/config"
	"github.com/alnah/go-docpdf/internal/fileutil"
	"github.com/alnah/go-docpdf/internal/hints"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath      string        // DOCPDF_CONFIG: config file name or path
	DocRoot         string        // DOCPDF_DOC_ROOT: document root
	Engine          string        // DOCPDF_ENGINE: pandoc or chrome
	Workers         int           // DOCPDF_WORKERS: parallel workers
	Timeout         time.Duration // DOCPDF_TIMEOUT: per-file timeout
	WatermarkText   string        // DOCPDF_WATERMARK_TEXT: watermark text
	WatermarkPreset string        // DOCPDF_WATERMARK_PRESET: watermark preset
}

// knownEnvVars lists valid DOCPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOCPDF_CONFIG":           true,
	"DOCPDF_DOC_ROOT":         true,
	"DOCPDF_ENGINE":           true,
	"DOCPDF_WORKERS":          true,
	"DOCPDF_TIMEOUT":          true,
	"DOCPDF_WATERMARK_TEXT":   true,
	"DOCPDF_WATERMARK_PRESET": true,
	"DOCPDF_CONTAINER":        true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:      getenv("DOCPDF_CONFIG"),
		DocRoot:         getenv("DOCPDF_DOC_ROOT"),
		Engine:          getenv("DOCPDF_ENGINE"),
		WatermarkText:   getenv("DOCPDF_WATERMARK_TEXT"),
		WatermarkPreset: getenv("DOCPDF_WATERMARK_PRESET"),
	}

	if timeout := getenv("DOCPDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("DOCPDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized DOCPDF_* variables.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "DOCPDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables win over the config file; CLI flags are merged afterwards.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.DocRoot != "" {
		cfg.Selector.DocRoot = env.DocRoot
	}
	if env.Engine != "" {
		cfg.Convert.Engine = env.Engine
	}
	if env.Workers > 0 {
		cfg.Convert.Workers = env.Workers
	}
	if env.Timeout > 0 {
		cfg.Convert.Timeout = env.Timeout.String()
	}

	// Watermark (auto-enable)
	if env.WatermarkText != "" {
		cfg.Watermark.Text = env.WatermarkText
		cfg.Watermark.Enabled = true
	}
	if env.WatermarkPreset != "" {
		cfg.Watermark.Preset = env.WatermarkPreset
	}
}

// loadConfig builds the effective configuration: defaults, then the config
// file (flag, else DOCPDF_CONFIG), then environment variables.
func loadConfig(flagConfig string, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.CandidatePaths(name)))
		}
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}
