package main

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	docpdf "github.com/alnah/go-docpdf"
	"github.com/alnah/go-docpdf/internal/config"
)

// Environment holds injectable dependencies for testability.
// Zero-valued hooks fall back to the real implementations.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
	Dir     string // working directory; "" = process directory

	Runner       docpdf.CommandRunner // git and tool versions
	Compositor   docpdf.Compositor
	Measure      docpdf.TextMeasurer
	NewConverter func(cfg *config.Config) (docpdf.Converter, error)
	LookPath     func(file string) (string, error)
	LookChrome   func() (string, bool)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Getenv:     os.Getenv,
		Environ:    os.Environ,
		LookPath:   exec.LookPath,
		LookChrome: launcher.LookPath,
	}
}

// runner returns the command runner rooted at Dir.
func (e *Environment) runner() docpdf.CommandRunner {
	if e.Runner != nil {
		return e.Runner
	}
	return &docpdf.ExecRunner{Dir: e.Dir}
}

// path resolves a relative path against Dir.
func (e *Environment) path(p string) string {
	if e.Dir == "" || p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(e.Dir, filepath.FromSlash(p))
}

// paths resolves every entry with path.
func (e *Environment) paths(ps []string) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = e.path(p)
	}
	return out
}

// watermarker creates a Watermarker honoring the compositor and measure hooks.
func (e *Environment) watermarker(cfg docpdf.WatermarkConfig) *docpdf.Watermarker {
	w := docpdf.NewWatermarker(cfg)
	if e.Compositor != nil {
		w.Compositor = e.Compositor
	}
	if e.Measure != nil {
		w.Measure = e.Measure
	}
	return w
}
