package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	docpdf "github.com/alnah/go-docpdf"
	"github.com/alnah/go-docpdf/internal/config"
)

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	vars   map[string]string
	runner *fakeRunner
	comp   *fakeCompositor
	tools  map[string]bool
}

// newTestEnv returns an environment rooted at a temp dir with every
// external dependency faked. Set vars and tools before running a command.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		vars:   map[string]string{},
		runner: &fakeRunner{outputs: map[string]string{}},
		comp:   &fakeCompositor{},
		tools:  map[string]bool{},
	}
	te.Environment = &Environment{
		Now:     func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout:  te.stdout,
		Stderr:  te.stderr,
		Getenv:  func(k string) string { return te.vars[k] },
		Environ: te.environ,
		Dir:     t.TempDir(),
		Runner:  te.runner,

		Compositor: te.comp,
		Measure: func(text, _ string, size float64) float64 {
			return float64(len([]rune(text))) * size * 0.5
		},
		NewConverter: func(*config.Config) (docpdf.Converter, error) { return fakeConverter{}, nil },
		LookPath: func(name string) (string, error) {
			if te.tools[name] {
				return "/usr/bin/" + name, nil
			}
			return "", exec.ErrNotFound
		},
		LookChrome: func() (string, bool) {
			if te.tools["chrome"] {
				return "/usr/bin/chrome", true
			}
			return "", false
		},
	}
	return te
}

func (te *testEnv) environ() []string {
	out := make([]string, 0, len(te.vars))
	for k, v := range te.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// write creates files (relative to Dir) with the given content.
func (te *testEnv) write(t *testing.T, content string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(te.Dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// read returns the content of a file relative to Dir.
func (te *testEnv) read(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(te.Dir, filepath.FromSlash(p)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// run executes the CLI with args after the program name.
func (te *testEnv) run(args ...string) int {
	return runMain(append([]string{"docpdf"}, args...), te.Environment)
}

// fakeRunner answers commands from a table keyed by program name.
type fakeRunner struct {
	mu      sync.Mutex
	outputs map[string]string
	err     error
	calls   [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return "", "fatal: bad revision 'HEAD~1'", f.err
	}
	return f.outputs[name], "", nil
}

func (f *fakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

// fakeConverter writes a stub PDF; sources whose name contains "bad" fail.
type fakeConverter struct{}

func (fakeConverter) Convert(_ context.Context, src, dst string) error {
	if strings.Contains(filepath.Base(src), "bad") {
		return fmt.Errorf("%w: pandoc exited with status 43", docpdf.ErrConversion)
	}
	return os.WriteFile(dst, []byte("%PDF-fake "+filepath.Base(src)), 0o644)
}

// fakeCompositor accepts inputs starting with %PDF as one Letter page and
// appends the stamped text to the copy.
type fakeCompositor struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeCompositor) PageSizes(rs io.ReadSeeker) ([]docpdf.PageSize, error) {
	data, err := io.ReadAll(rs)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, errors.New("not a PDF")
	}
	return []docpdf.PageSize{{Width: 612, Height: 792}}, nil
}

func (f *fakeCompositor) Stamp(rs io.ReadSeeker, w io.Writer, stamps map[int][]docpdf.Stamp) error {
	if _, err := io.Copy(w, rs); err != nil {
		return err
	}
	text := stamps[1][0].Text
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	_, err := fmt.Fprintf(w, " [%s x%d]", text, len(stamps[1]))
	return err
}

func (f *fakeCompositor) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}
