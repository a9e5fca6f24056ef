package docpdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// runCall records one CommandRunner invocation.
type runCall struct {
	Name string
	Args []string
}

// mockRunner returns canned output and records calls.
type mockRunner struct {
	mu     sync.Mutex
	calls  []runCall
	stdout string
	stderr string
	err    error
	// onRun, when set, runs before the canned result is returned.
	onRun func(name string, args []string) error
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, runCall{Name: name, Args: append([]string(nil), args...)})
	m.mu.Unlock()

	if m.onRun != nil {
		if err := m.onRun(name, args); err != nil {
			return "", m.stderr, err
		}
	}
	return m.stdout, m.stderr, m.err
}

func (m *mockRunner) Calls() []runCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]runCall(nil), m.calls...)
}

// mockConverter writes a fake PDF or fails for selected sources.
type mockConverter struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]error
	block   chan struct{} // when set, Convert waits on it or ctx
}

func (m *mockConverter) Convert(ctx context.Context, src, dst string) error {
	m.mu.Lock()
	m.calls = append(m.calls, src)
	m.mu.Unlock()

	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err, ok := m.failFor[src]; ok {
		return err
	}
	return os.WriteFile(dst, []byte("%PDF-1.7 mock"), 0o644)
}

func (m *mockConverter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// fakeCompositor reports fixed page sizes and records the stamps it was
// asked to draw. The "stamped" document is the input followed by one line
// per stamp.
type fakeCompositor struct {
	pages     []PageSize
	sizesErr  error
	stampErr  error
	gotStamps map[int][]Stamp
}

func (f *fakeCompositor) PageSizes(rs io.ReadSeeker) ([]PageSize, error) {
	if f.sizesErr != nil {
		return nil, f.sizesErr
	}
	if _, err := io.ReadAll(rs); err != nil {
		return nil, err
	}
	return f.pages, nil
}

func (f *fakeCompositor) Stamp(rs io.ReadSeeker, w io.Writer, stamps map[int][]Stamp) error {
	f.gotStamps = stamps
	for page, list := range stamps {
		for _, s := range list {
			if s.Rotation <= -180 || s.Rotation > 180 {
				return fmt.Errorf("page %d: illegal rotation %v", page, s.Rotation)
			}
		}
	}
	if f.stampErr != nil {
		_, _ = io.WriteString(w, "partial")
		return f.stampErr
	}
	if _, err := io.Copy(w, rs); err != nil {
		return err
	}
	var b strings.Builder
	for page := 1; page <= len(f.pages); page++ {
		for _, s := range stamps[page] {
			fmt.Fprintf(&b, "\npage %d: %s", page, s.Text)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// fixedMeasure gives every glyph the same advance: 0.5em.
func fixedMeasure(text, _ string, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.5
}

// fakeRenderer stands in for the browser.
type fakeRenderer struct {
	mu      sync.Mutex
	pdf     []byte
	err     error
	gotHTML string
	closed  bool
}

func (f *fakeRenderer) RenderFromFile(_ context.Context, filePath string) ([]byte, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.gotHTML = string(content)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.pdf, nil
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

var errBoom = errors.New("boom")
