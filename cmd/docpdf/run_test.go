package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	docpdf "github.com/alnah/go-docpdf"
	"github.com/alnah/go-docpdf/internal/config"
	"github.com/alnah/go-docpdf/internal/ghaction"
)

// plainConverter writes output that is not a PDF.
type plainConverter struct{}

func (plainConverter) Convert(_ context.Context, _, dst string) error {
	return os.WriteFile(dst, []byte("plain"), 0o644)
}

func TestRunRunCmd(t *testing.T) {
	t.Parallel()

	t.Run("selects converts and watermarks", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# doc\n", "doc/a.md", "doc/bad.md")
		te.runner.outputs["git"] = "doc/a.md\ndoc/bad.md\n"

		code := te.run("run", "--wm-text", "DRAFT", "--suffix", "-wm")
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}

		if got := te.read(t, "doc/a-wm.pdf"); got != "%PDF-fake a.md [DRAFT x25]" {
			t.Errorf("a-wm.pdf = %q", got)
		}
		if got := te.read(t, "doc/a.pdf"); got != "%PDF-fake a.md" {
			t.Errorf("a.pdf = %q, want the unstamped conversion", got)
		}
		out := te.stdout.String()
		if !strings.Contains(out, `Files to process: ["doc/a.md","doc/bad.md"]`) {
			t.Errorf("stdout = %q, want selection line", out)
		}
		if !strings.Contains(out, "1 succeeded, 1 failed") {
			t.Errorf("stdout = %q, want summary", out)
		}
	})

	t.Run("watermark disabled by default", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# doc\n", "doc/a.md")
		te.runner.outputs["git"] = "doc/a.md\n"

		if code := te.run("run"); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}
		if got := te.read(t, "doc/a.pdf"); got != "%PDF-fake a.md" {
			t.Errorf("a.pdf = %q", got)
		}
		if texts := te.comp.Texts(); len(texts) != 0 {
			t.Errorf("compositor called with %v", texts)
		}
	})

	t.Run("environment text watermarks in place", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# doc\n", "doc/a.md")
		te.vars[ghaction.EnvEventName] = "workflow_dispatch"
		te.vars[ghaction.EnvScope] = "all"
		te.vars["DOCPDF_WATERMARK_TEXT"] = "INTERNAL"
		te.vars["DOCPDF_WATERMARK_PRESET"] = "subtle"

		if code := te.run("run"); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}
		if got := te.read(t, "doc/a.pdf"); got != "%PDF-fake a.md [INTERNAL x1]" {
			t.Errorf("a.pdf = %q", got)
		}
	})

	t.Run("no-watermark wins over environment", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# doc\n", "doc/a.md")
		te.runner.outputs["git"] = "doc/a.md\n"
		te.vars["DOCPDF_WATERMARK_TEXT"] = "INTERNAL"

		if code := te.run("run", "--no-watermark"); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}
		if got := te.read(t, "doc/a.pdf"); got != "%PDF-fake a.md" {
			t.Errorf("a.pdf = %q", got)
		}
	})

	t.Run("nothing changed", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		out := filepath.Join(te.Dir, "github_output")
		te.vars[ghaction.EnvOutput] = out

		if code := te.run("run", "--wm-text", "DRAFT"); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}
		if !strings.Contains(te.stdout.String(), "No files to process") {
			t.Errorf("stdout = %q", te.stdout)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "files=[]\n" {
			t.Errorf("step output = %q", data)
		}
	})

	t.Run("github-output flag resolves against the working dir", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# doc\n", "doc/a.md")
		te.runner.outputs["git"] = "doc/a.md\n"
		te.vars[ghaction.EnvOutput] = filepath.Join(te.Dir, "ignored")

		if code := te.run("run", "--no-watermark", "--github-output", "out.txt"); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}
		if got := te.read(t, "out.txt"); got != "files=[\"doc/a.md\"]\n" {
			t.Errorf("step output = %q", got)
		}
		if _, err := os.Stat(filepath.Join(te.Dir, "ignored")); !os.IsNotExist(err) {
			t.Error("GITHUB_OUTPUT should not be written when the flag is set")
		}
	})

	t.Run("unwritable step output is an I/O error", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.vars[ghaction.EnvOutput] = "missing/dir/output"

		if code := te.run("run", "--no-watermark"); code != ExitIO {
			t.Errorf("exit code = %d, want %d (stderr: %s)", code, ExitIO, te.stderr)
		}
	})

	t.Run("watermark failures count as failed files", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# doc\n", "doc/a.md")
		te.runner.outputs["git"] = "doc/a.md\n"
		te.NewConverter = func(*config.Config) (docpdf.Converter, error) { return plainConverter{}, nil }

		if code := te.run("run", "--wm-text", "DRAFT", "--fail-on-error"); code != ExitGeneral {
			t.Fatalf("exit code = %d, want %d", code, ExitGeneral)
		}
		if !strings.Contains(te.stderr.String(), "watermarking") {
			t.Errorf("stderr = %q, want watermark failure", te.stderr)
		}
		if !strings.Contains(te.stdout.String(), "0 succeeded, 1 failed") {
			t.Errorf("stdout = %q", te.stdout)
		}
	})

	t.Run("invalid watermark is rejected before converting", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# doc\n", "doc/a.md")
		te.runner.outputs["git"] = "doc/a.md\n"
		te.vars["DOCPDF_WATERMARK_TEXT"] = "DRAFT"
		te.vars["DOCPDF_WATERMARK_PRESET"] = "loud"

		if code := te.run("run"); code != ExitUsage {
			t.Fatalf("exit code = %d, want %d", code, ExitUsage)
		}
		if _, err := os.Stat(filepath.Join(te.Dir, "doc", "a.pdf")); err == nil {
			t.Error("nothing should be converted")
		}
	})
}
