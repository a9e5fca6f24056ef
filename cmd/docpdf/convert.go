package main

import (
	"context"
	"fmt"
	"io"
	"time"

	docpdf "github.com/alnah/go-docpdf"
	"github.com/alnah/go-docpdf/internal/config"
	"github.com/alnah/go-docpdf/internal/ghaction"
)

// runConvertCmd converts a JSON list of documents (argument, else
// FILES_TO_PROCESS) to PDFs next to their sources.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, rest, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return exitCodeForFlags(err)
	}
	if len(rest) > 1 {
		fmt.Fprintf(env.Stderr, "error: %v: %v\n", errUnexpectedArgs, rest[1:])
		return ExitUsage
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	mergeConvertFlags(&flags.convert, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}

	raw := ghaction.Load(env.Getenv).FilesToProcess
	if len(rest) == 1 {
		raw = rest[0]
	}
	files, err := ghaction.DecodeFiles(raw)
	if err != nil {
		fmt.Fprintf(env.Stderr, "warning: %v\n", err)
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

	failed := printResults(results, flags.common, env)
	if failed > 0 && cfg.Convert.FailOnError {
		return ExitGeneral
	}
	return ExitSuccess
}

// convertFiles runs the configured engine over files.
func convertFiles(ctx context.Context, files []string, cfg *config.Config, common commonFlags, env *Environment) ([]docpdf.ConversionResult, error) {
	conv, err := newConverter(cfg, env)
	if err != nil {
		return nil, err
	}
	if c, ok := conv.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				fmt.Fprintf(env.Stderr, "warning: closing converter: %v\n", err)
			}
		}()
	}

	timeout := parseTimeout(cfg.Convert.Timeout)
	if common.verbose {
		fmt.Fprintf(env.Stderr, "Engine: %s, pool size: %d\n", cfg.Convert.Engine, docpdf.ResolvePoolSize(cfg.Convert.Workers))
	}

	return docpdf.ConvertBatch(ctx, conv, files, docpdf.BatchOptions{
		Workers: cfg.Convert.Workers,
		Timeout: timeout,
		Warn:    env.Stderr,
	}), nil
}

// newConverter creates the engine named by convert.engine.
func newConverter(cfg *config.Config, env *Environment) (docpdf.Converter, error) {
	if env.NewConverter != nil {
		return env.NewConverter(cfg)
	}

	c := cfg.Convert
	switch c.Engine {
	case config.EngineChrome:
		var opts []docpdf.ChromeOption
		if d := parseTimeout(c.Timeout); d > 0 {
			opts = append(opts, docpdf.WithTimeout(d))
		}
		return docpdf.NewChromeConverter(docpdf.ChromeOptions{
			Margin:   c.Margin,
			FontSize: c.FontSize,
			TOC:      c.TOC,
			TOCDepth: c.TOCDepth,
		}, opts...), nil
	case "", config.EnginePandoc:
		conv := docpdf.NewPandocConverter(docpdf.PandocOptions{
			PDFEngine: c.PDFEngine,
			Margin:    c.Margin,
			FontSize:  c.FontSize,
			TOC:       c.TOC,
			TOCDepth:  c.TOCDepth,
		})
		conv.Runner = env.runner()
		return conv, nil
	default:
		return nil, fmt.Errorf("%w: convert.engine %q", config.ErrInvalidValue, c.Engine)
	}
}

// parseTimeout parses a validated duration; empty means no limit.
func parseTimeout(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []docpdf.ConversionResult, common commonFlags, env *Environment) int {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		if common.quiet {
			continue
		}
		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	summary := docpdf.Summarize(results)
	if !common.quiet {
		fmt.Fprintf(env.Stdout, "%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
	return summary.Failed
}
