package main

import (
	"context"
	"fmt"

	docpdf "github.com/alnah/go-docpdf"
	"github.com/alnah/go-docpdf/internal/ghaction"
)

// runRunCmd selects, converts and, when a watermark text is configured,
// watermarks the documents of one workflow run.
func runRunCmd(ctx context.Context, args []string, env *Environment) int {
	flags, rest, err := parseRunFlags(args, env.Stderr)
	if err != nil {
		return exitCodeForFlags(err)
	}
	if len(rest) > 0 {
		fmt.Fprintf(env.Stderr, "error: %v: %v\n", errUnexpectedArgs, rest)
		return ExitUsage
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	mergeSelectFlags(&flags.sel, cfg)
	mergeConvertFlags(&flags.convert, cfg)
	mergeWatermarkFlags(&flags.watermark, &cfg.Watermark)
	if flags.text != "" {
		cfg.Watermark.Text = flags.text
		cfg.Watermark.Enabled = true
	}
	if flags.suffix != "" {
		cfg.Watermark.Suffix = flags.suffix
	}
	if flags.noWatermark {
		cfg.Watermark.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	var wm *docpdf.Watermarker
	if cfg.Watermark.Enabled {
		wcfg, err := buildWatermarkConfig(cfg.Watermark)
		if err == nil {
			err = wcfg.Validate()
		}
		if err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return exitCodeFor(err)
		}
		wm = env.watermarker(wcfg)
	}

	files, err := selectFiles(ctx, &flags.sel, cfg, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	encoded := ghaction.EncodeFiles(files)
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Files to process: %s\n", encoded)
	}
	if err := publishFiles(flags.githubOutput, encoded, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitIO
	}
	if len(files) == 0 {
		fmt.Fprintln(env.Stdout, "No files to process")
		return ExitSuccess
	}

	results, err := convertFiles(ctx, env.paths(files), cfg, flags.common, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	if wm != nil {
		watermarkResults(ctx, wm, results, cfg.Watermark.Suffix)
	}

	failed := printResults(results, flags.common, env)
	if failed > 0 && cfg.Convert.FailOnError {
		return ExitGeneral
	}
	return ExitSuccess
}

// watermarkResults stamps every generated PDF, recording failures on the
// result so the summary counts them.
func watermarkResults(ctx context.Context, wm *docpdf.Watermarker, results []docpdf.ConversionResult, suffix string) {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		out := watermarkOutputPath(r.OutputPath, suffix)
		if err := wm.Apply(ctx, r.OutputPath, out, ""); err != nil {
			r.Err = fmt.Errorf("watermarking %s: %w", r.OutputPath, err)
			continue
		}
		r.OutputPath = out
	}
}
