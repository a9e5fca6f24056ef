package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docpdf/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// selectFlags holds change selection flags.
type selectFlags struct {
	trigger string
	scope   string
	files   string
	docRoot string
	base    string
	head    string
}

// convertFlags holds conversion flags.
type convertFlags struct {
	engine      string
	pdfEngine   string
	timeout     string
	workers     int
	failOnError bool
	noTOC       bool
}

// watermarkFlags holds overlay flags. The *Set fields record flags given
// explicitly, since zero is a valid opacity, angle and radius.
type watermarkFlags struct {
	preset     string
	mode       string
	color      string
	font       string
	opacity    float64
	angle      float64
	fontSize   int
	gridRadius int

	opacitySet    bool
	angleSet      bool
	gridRadiusSet bool
}

// selectCmdFlags holds all flags for the select command.
type selectCmdFlags struct {
	common       commonFlags
	sel          selectFlags
	githubOutput string
}

// convertCmdFlags holds all flags for the convert command.
type convertCmdFlags struct {
	common  commonFlags
	convert convertFlags
}

// watermarkCmdFlags holds all flags for the watermark command.
type watermarkCmdFlags struct {
	common    commonFlags
	watermark watermarkFlags
}

// runCmdFlags holds all flags for the run command.
type runCmdFlags struct {
	common      commonFlags
	sel         selectFlags
	convert     convertFlags
	watermark   watermarkFlags
	text         string
	suffix       string
	noWatermark  bool
	githubOutput string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addSelectFlags adds change selection flags to a FlagSet.
func addSelectFlags(fs *flag.FlagSet, f *selectFlags) {
	fs.StringVar(&f.trigger, "trigger", "", "automatic or manual (default: from GITHUB_EVENT_NAME)")
	fs.StringVar(&f.scope, "scope", "", "manual scope: all, specific, changed")
	fs.StringVar(&f.files, "files", "", "comma-separated files for --scope specific")
	fs.StringVar(&f.docRoot, "doc-root", "", "document root directory")
	fs.StringVar(&f.base, "base", "", "diff base revision")
	fs.StringVar(&f.head, "head", "", "diff head revision")
}

// addOutputFlag adds the step output file flag.
func addOutputFlag(fs *flag.FlagSet, path *string) {
	fs.StringVar(path, "github-output", "", "step output file (default: $GITHUB_OUTPUT)")
}

// addConvertFlags adds conversion flags to a FlagSet.
func addConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "conversion engine: pandoc, chrome")
	fs.StringVar(&f.pdfEngine, "pdf-engine", "", "pandoc PDF engine (default: xelatex)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = config, then 1)")
	fs.BoolVar(&f.failOnError, "fail-on-error", false, "exit non-zero when a file fails")
	fs.BoolVar(&f.noTOC, "no-toc", false, "disable table of contents")
}

// addWatermarkFlags adds overlay flags to a FlagSet.
func addWatermarkFlags(fs *flag.FlagSet, f *watermarkFlags) {
	fs.StringVar(&f.preset, "preset", "", "watermark preset (default: classic)")
	fs.StringVar(&f.mode, "mode", "", "watermark mode: tiled, centered")
	fs.StringVar(&f.color, "color", "", "watermark color (hex)")
	fs.StringVar(&f.font, "font", "", "standard PDF font name")
	fs.Float64Var(&f.opacity, "opacity", 0, "watermark opacity (0.0-1.0)")
	fs.Float64Var(&f.angle, "angle", 0, "rotation in degrees, counter-clockwise")
	fs.IntVar(&f.fontSize, "font-size", 0, "fixed font size in points")
	fs.IntVar(&f.gridRadius, "grid-radius", 0, "tiled grid radius R, (2R+1)^2 instances")
}

// markWatermarkChanged records which zero-valid flags were set.
func markWatermarkChanged(fs *flag.FlagSet, f *watermarkFlags) {
	f.opacitySet = fs.Changed("opacity")
	f.angleSet = fs.Changed("angle")
	f.gridRadiusSet = fs.Changed("grid-radius")
}

// newFlagSet creates a FlagSet printing errors and usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseArgs parses args, reporting any error except --help with the
// command usage. pflag stays silent on parse errors under ContinueOnError.
func parseArgs(fs *flag.FlagSet, args []string, w io.Writer, usage func(io.Writer)) error {
	err := fs.Parse(args)
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(w, "error: %v\n\n", err)
		usage(w)
	}
	return err
}

// parseSelectFlags parses select command flags.
func parseSelectFlags(args []string, w io.Writer) (*selectCmdFlags, []string, error) {
	f := &selectCmdFlags{}
	fs := newFlagSet("select", w, printSelectUsage)
	addCommonFlags(fs, &f.common)
	addSelectFlags(fs, &f.sel)
	addOutputFlag(fs, &f.githubOutput)

	if err := parseArgs(fs, args, w, printSelectUsage); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConvertFlags parses convert command flags.
func parseConvertFlags(args []string, w io.Writer) (*convertCmdFlags, []string, error) {
	f := &convertCmdFlags{}
	fs := newFlagSet("convert", w, printConvertUsage)
	addCommonFlags(fs, &f.common)
	addConvertFlags(fs, &f.convert)

	if err := parseArgs(fs, args, w, printConvertUsage); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWatermarkFlags parses watermark command flags.
func parseWatermarkFlags(args []string, w io.Writer) (*watermarkCmdFlags, []string, error) {
	f := &watermarkCmdFlags{}
	fs := newFlagSet("watermark", w, printWatermarkUsage)
	addCommonFlags(fs, &f.common)
	addWatermarkFlags(fs, &f.watermark)

	if err := parseArgs(fs, args, w, printWatermarkUsage); err != nil {
		return nil, nil, err
	}
	markWatermarkChanged(fs, &f.watermark)
	return f, fs.Args(), nil
}

// parseRunFlags parses run command flags.
func parseRunFlags(args []string, w io.Writer) (*runCmdFlags, []string, error) {
	f := &runCmdFlags{}
	fs := newFlagSet("run", w, printRunUsage)
	addCommonFlags(fs, &f.common)
	addSelectFlags(fs, &f.sel)
	addConvertFlags(fs, &f.convert)
	addWatermarkFlags(fs, &f.watermark)
	fs.StringVar(&f.text, "wm-text", "", "watermark text (enables the watermark)")
	fs.StringVar(&f.suffix, "suffix", "", "watermarked file suffix (empty = in place)")
	fs.BoolVar(&f.noWatermark, "no-watermark", false, "skip the watermark step")
	addOutputFlag(fs, &f.githubOutput)

	if err := parseArgs(fs, args, w, printRunUsage); err != nil {
		return nil, nil, err
	}
	markWatermarkChanged(fs, &f.watermark)
	return f, fs.Args(), nil
}

// mergeSelectFlags applies selection flags over cfg.
func mergeSelectFlags(f *selectFlags, cfg *config.Config) {
	if f.docRoot != "" {
		cfg.Selector.DocRoot = f.docRoot
	}
	if f.base != "" {
		cfg.Selector.BaseRev = f.base
	}
	if f.head != "" {
		cfg.Selector.HeadRev = f.head
	}
}

// mergeConvertFlags applies conversion flags over cfg.
func mergeConvertFlags(f *convertFlags, cfg *config.Config) {
	if f.engine != "" {
		cfg.Convert.Engine = f.engine
	}
	if f.pdfEngine != "" {
		cfg.Convert.PDFEngine = f.pdfEngine
	}
	if f.timeout != "" {
		cfg.Convert.Timeout = f.timeout
	}
	if f.workers != 0 {
		cfg.Convert.Workers = f.workers
	}
	if f.failOnError {
		cfg.Convert.FailOnError = true
	}
	if f.noTOC {
		cfg.Convert.TOC = false
	}
}

// mergeWatermarkFlags applies overlay flags over cfg.
func mergeWatermarkFlags(f *watermarkFlags, cfg *config.WatermarkConfig) {
	if f.preset != "" {
		cfg.Preset = f.preset
	}
	if f.mode != "" {
		cfg.Mode = f.mode
	}
	if f.color != "" {
		cfg.Color = f.color
	}
	if f.font != "" {
		cfg.Font = f.font
	}
	if f.fontSize != 0 {
		cfg.FontSize = f.fontSize
	}
	if f.opacitySet {
		v := f.opacity
		cfg.Opacity = &v
	}
	if f.angleSet {
		v := f.angle
		cfg.Angle = &v
	}
	if f.gridRadiusSet {
		v := f.gridRadius
		cfg.GridRadius = &v
	}
}
