package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	docpdf "github.com/alnah/go-docpdf"
	"github.com/alnah/go-docpdf/internal/config"
	"github.com/alnah/go-docpdf/internal/ghaction"
)

func TestRunConvertCmd(t *testing.T) {
	t.Parallel()

	t.Run("failures do not stop the batch", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# A\n", "doc/a.md", "doc/bad.md", "doc/c.md")

		code := te.run("convert", `["doc/a.md","doc/bad.md","doc/c.md"]`)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}
		if !strings.Contains(te.stdout.String(), "2 succeeded, 1 failed") {
			t.Errorf("stdout = %q, want summary", te.stdout)
		}
		if !strings.Contains(te.stderr.String(), "FAILED ") || !strings.Contains(te.stderr.String(), "bad.md") {
			t.Errorf("stderr = %q, want FAILED line for bad.md", te.stderr)
		}
		if got := te.read(t, "doc/c.pdf"); got != "%PDF-fake c.md" {
			t.Errorf("c.pdf = %q", got)
		}
	})

	t.Run("fail-on-error", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# A\n", "doc/bad.md")

		if code := te.run("convert", "--fail-on-error", `["doc/bad.md"]`); code != ExitGeneral {
			t.Errorf("exit code = %d, want %d", code, ExitGeneral)
		}
	})

	t.Run("list from FILES_TO_PROCESS", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# A\n", "doc/a.md")
		te.vars[ghaction.EnvFilesToProcess] = `["doc/a.md"]`

		if code := te.run("convert"); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, te.stderr)
		}
		if _, err := os.Stat(filepath.Join(te.Dir, "doc", "a.pdf")); err != nil {
			t.Errorf("a.pdf not created: %v", err)
		}
	})

	t.Run("no files to process", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"[]", "not json", ""} {
			te := newTestEnv(t)
			args := []string{"convert"}
			if input != "" {
				args = append(args, input)
			}
			if code := te.run(args...); code != ExitSuccess {
				t.Errorf("%q: exit code = %d", input, code)
			}
			if !strings.Contains(te.stdout.String(), "No files to process") {
				t.Errorf("%q: stdout = %q", input, te.stdout)
			}
		}
	})

	t.Run("quiet prints failures only", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# A\n", "doc/a.md", "doc/bad.md")

		if code := te.run("convert", "-q", `["doc/a.md","doc/bad.md"]`); code != ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		if te.stdout.Len() != 0 {
			t.Errorf("stdout = %q, want nothing", te.stdout)
		}
		if !strings.Contains(te.stderr.String(), "FAILED") {
			t.Errorf("stderr = %q", te.stderr)
		}
	})

	t.Run("invalid engine", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		if code := te.run("convert", "--engine", "latex", `["doc/a.md"]`); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		if code := te.run("convert", "--timeout", "soon", `["doc/a.md"]`); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("converter creation failure", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t)
		te.write(t, "# A\n", "doc/a.md")
		te.NewConverter = func(*config.Config) (docpdf.Converter, error) {
			return nil, docpdf.ErrToolNotFound
		}
		if code := te.run("convert", `["doc/a.md"]`); code != ExitTool {
			t.Errorf("exit code = %d, want %d", code, ExitTool)
		}
	})
}

func TestNewConverter(t *testing.T) {
	t.Parallel()

	env := &Environment{Dir: t.TempDir()}

	t.Run("pandoc", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		conv, err := newConverter(cfg, env)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p, ok := conv.(*docpdf.PandocConverter)
		if !ok {
			t.Fatalf("got %T, want *PandocConverter", conv)
		}
		if p.Options.PDFEngine != "xelatex" || !p.Options.TOC || p.Options.TOCDepth != 3 {
			t.Errorf("Options = %+v", p.Options)
		}
		if r, ok := p.Runner.(*docpdf.ExecRunner); !ok || r.Dir != env.Dir {
			t.Errorf("Runner = %#v, want ExecRunner in %s", p.Runner, env.Dir)
		}
	})

	t.Run("chrome", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Convert.Engine = config.EngineChrome
		cfg.Convert.Timeout = "10s"
		conv, err := newConverter(cfg, env)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		c, ok := conv.(*docpdf.ChromeConverter)
		if !ok {
			t.Fatalf("got %T, want *ChromeConverter", conv)
		}
		if c.Options.Margin != "1in" || c.Options.FontSize != "11pt" {
			t.Errorf("Options = %+v", c.Options)
		}
		_ = c.Close()
	})

	t.Run("unknown engine", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Convert.Engine = "wkhtmltopdf"
		if _, err := newConverter(cfg, env); !errors.Is(err, config.ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestParseTimeout(t *testing.T) {
	t.Parallel()

	tests := map[string]time.Duration{
		"":      0,
		"30s":   30 * time.Second,
		"2m":    2 * time.Minute,
		"bogus": 0,
	}
	for in, want := range tests {
		if got := parseTimeout(in); got != want {
			t.Errorf("parseTimeout(%q) = %v, want %v", in, got, want)
		}
	}
}
