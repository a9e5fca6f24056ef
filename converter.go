package docpdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alnah/go-docpdf/internal/fileutil"
)

// Converter turns one source document into a PDF file.
// Implementations must be safe for concurrent use when ConvertBatch runs
// with more than one worker.
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// Compile-time interface implementation checks.
var (
	_ Converter = (*PandocConverter)(nil)
	_ Converter = (*ChromeConverter)(nil)
)

// OutputPath derives the PDF path of src: same directory, extension
// replaced by ".pdf".
func OutputPath(src string) string {
	return fileutil.ReplaceExt(src, ".pdf")
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// BatchOptions tunes ConvertBatch.
type BatchOptions struct {
	Workers int           // 1 = sequential, 0 = auto (see ResolvePoolSize)
	Timeout time.Duration // per file; 0 = no limit
	Warn    io.Writer     // skipped inputs are reported here; nil = discard
}

// ConvertBatch converts every existing path with conv, one attempt each.
// A failure is recorded in its result and never stops the batch. Missing
// sources are skipped with a warning. Results follow input order.
func ConvertBatch(ctx context.Context, conv Converter, paths []string, opts BatchOptions) []ConversionResult {
	warn := opts.Warn
	if warn == nil {
		warn = io.Discard
	}

	var sources []string
	for _, p := range paths {
		if !fileutil.FileExists(p) {
			fmt.Fprintf(warn, "warning: skipping %s: file not found\n", p)
			continue
		}
		sources = append(sources, p)
	}

	results := make([]ConversionResult, len(sources))
	runPool(ctx, ResolvePoolSize(opts.Workers), len(sources), func(ctx context.Context, idx int) {
		results[idx] = convertOne(ctx, conv, sources[idx], opts.Timeout)
	}, func(idx int, err error) {
		results[idx] = ConversionResult{InputPath: sources[idx], OutputPath: OutputPath(sources[idx]), Err: err}
	})
	return results
}

// convertOne runs a single conversion under the per-file timeout.
func convertOne(ctx context.Context, conv Converter, src string, timeout time.Duration) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: src, OutputPath: OutputPath(src)}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := conv.Convert(ctx, src, result.OutputPath); err != nil {
		if !errors.Is(err, ErrConversion) {
			err = fmt.Errorf("%w: %w", ErrConversion, err)
		}
		result.Err = err
	}
	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// Summarize tallies succeeded and failed conversions.
func Summarize(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}
