package main

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-docpdf/internal/config"
)

func TestParseRunFlags(t *testing.T) {
	t.Parallel()

	f, rest, err := parseRunFlags([]string{
		"-c", "ci", "-q",
		"--trigger", "manual", "--scope", "specific", "--files", "doc/a.md",
		"-e", "chrome", "-w", "3", "-t", "45s", "--fail-on-error", "--no-toc",
		"--preset", "dense", "--opacity", "0", "--angle", "-30",
		"--wm-text", "DRAFT", "--suffix", "-wm",
	}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("rest = %v, want none", rest)
	}

	if f.common.config != "ci" || !f.common.quiet {
		t.Errorf("common = %+v", f.common)
	}
	if diff := cmp.Diff(selectFlags{trigger: "manual", scope: "specific", files: "doc/a.md"}, f.sel, cmp.AllowUnexported(selectFlags{})); diff != "" {
		t.Errorf("select flags (-want +got):\n%s", diff)
	}
	wantConvert := convertFlags{engine: "chrome", timeout: "45s", workers: 3, failOnError: true, noTOC: true}
	if diff := cmp.Diff(wantConvert, f.convert, cmp.AllowUnexported(convertFlags{})); diff != "" {
		t.Errorf("convert flags (-want +got):\n%s", diff)
	}
	if !f.watermark.opacitySet || !f.watermark.angleSet || f.watermark.gridRadiusSet {
		t.Errorf("changed flags = %+v", f.watermark)
	}
	if f.text != "DRAFT" || f.suffix != "-wm" {
		t.Errorf("text = %q, suffix = %q", f.text, f.suffix)
	}
}

func TestParseWatermarkFlags_Positional(t *testing.T) {
	t.Parallel()

	_, rest, err := parseWatermarkFlags([]string{"in.pdf", "--mode", "centered", "out.pdf", "TOP SECRET"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"in.pdf", "out.pdf", "TOP SECRET"}, rest); diff != "" {
		t.Errorf("positional args (-want +got):\n%s", diff)
	}
}

func TestMergeConvertFlags(t *testing.T) {
	t.Parallel()

	t.Run("zero flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergeConvertFlags(&convertFlags{}, cfg)
		if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
			t.Errorf("config changed (-want +got):\n%s", diff)
		}
	})

	t.Run("flags win", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergeConvertFlags(&convertFlags{engine: "chrome", pdfEngine: "lualatex", timeout: "1m", workers: 4, failOnError: true, noTOC: true}, cfg)

		want := config.DefaultConfig().Convert
		want.Engine = "chrome"
		want.PDFEngine = "lualatex"
		want.Timeout = "1m"
		want.Workers = 4
		want.FailOnError = true
		want.TOC = false
		if diff := cmp.Diff(want, cfg.Convert); diff != "" {
			t.Errorf("convert config (-want +got):\n%s", diff)
		}
	})
}

func TestMergeSelectFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	mergeSelectFlags(&selectFlags{docRoot: "manuals", base: "origin/main"}, cfg)

	if cfg.Selector.DocRoot != "manuals" || cfg.Selector.BaseRev != "origin/main" || cfg.Selector.HeadRev != "HEAD" {
		t.Errorf("Selector = %+v", cfg.Selector)
	}
}

func TestMergeWatermarkFlags(t *testing.T) {
	t.Parallel()

	var cfg config.WatermarkConfig
	mergeWatermarkFlags(&watermarkFlags{
		preset: "bold", mode: "centered", color: "#ff0000", font: "Courier",
		opacity: 0, opacitySet: true, fontSize: 30, gridRadius: 0,
	}, &cfg)

	if cfg.Preset != "bold" || cfg.Mode != "centered" || cfg.Color != "#ff0000" || cfg.Font != "Courier" || cfg.FontSize != 30 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Opacity == nil || *cfg.Opacity != 0 {
		t.Errorf("Opacity = %v, want explicit 0", cfg.Opacity)
	}
	if cfg.Angle != nil || cfg.GridRadius != nil {
		t.Errorf("unset flags must stay nil: angle %v, radius %v", cfg.Angle, cfg.GridRadius)
	}
}

func TestParseFlags_ReportsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		wantErr   string
		wantUsage string
	}{
		{"select unknown flag", []string{"select", "--bogus"}, "unknown flag: --bogus", "Usage: docpdf select"},
		{"convert bad int", []string{"convert", "--workers", "many"}, "invalid argument", "Usage: docpdf convert"},
		{"watermark unknown flag", []string{"watermark", "--bogus", "in.pdf", "out.pdf", "X"}, "unknown flag: --bogus", "Usage: docpdf watermark"},
		{"watermark bad float", []string{"watermark", "--opacity", "abc", "in.pdf", "out.pdf", "X"}, "invalid argument", "Usage: docpdf watermark"},
		{"run unknown flag", []string{"run", "--bogus"}, "unknown flag: --bogus", "Usage: docpdf run"},
		{"doctor unknown flag", []string{"doctor", "--bogus"}, "unknown flag: --bogus", "Usage: docpdf doctor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if code := te.run(tt.args...); code != ExitUsage {
				t.Errorf("exit code = %d, want %d", code, ExitUsage)
			}
			stderr := te.stderr.String()
			if !strings.Contains(stderr, "error: ") || !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want error containing %q", stderr, tt.wantErr)
			}
			if !strings.Contains(stderr, tt.wantUsage) {
				t.Errorf("stderr = %q, want usage %q", stderr, tt.wantUsage)
			}
		})
	}
}

func TestParseArgs_HelpIsSilent(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	_, _, err := parseSelectFlags([]string{"--help"}, &buf)
	if exitCodeForFlags(err) != ExitSuccess {
		t.Fatalf("err = %v, want flag.ErrHelp", err)
	}
	if strings.Contains(buf.String(), "error:") {
		t.Errorf("help output should not report an error: %q", buf.String())
	}
}
