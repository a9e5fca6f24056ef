package docpdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docpdf/internal/fileutil"
)

// Trigger tells how a run was initiated.
type Trigger string

const (
	TriggerAutomatic Trigger = "automatic" // push or any non-manual event
	TriggerManual    Trigger = "manual"    // operator-requested run
)

// Scope selects the documents of a manual run.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeSpecific Scope = "specific"
	ScopeChanged  Scope = "changed"
)

// manualEvent is the GitHub Actions event name of an operator-triggered workflow.
const manualEvent = "workflow_dispatch"

// Selector defaults.
const (
	DefaultDocRoot   = "doc"
	DefaultExtension = ".md"
	DefaultBaseRev   = "HEAD~1"
	DefaultHeadRev   = "HEAD"
)

// ParseTrigger validates a trigger name.
func ParseTrigger(s string) (Trigger, error) {
	switch t := Trigger(strings.ToLower(strings.TrimSpace(s))); t {
	case TriggerAutomatic, TriggerManual:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q (must be automatic or manual)", ErrInvalidTrigger, s)
	}
}

// TriggerFromEvent maps a GitHub Actions event name to a trigger.
func TriggerFromEvent(eventName string) Trigger {
	if eventName == manualEvent {
		return TriggerManual
	}
	return TriggerAutomatic
}

// ParseScope validates a scope name. An empty scope means ScopeChanged.
func ParseScope(s string) (Scope, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ScopeChanged, nil
	}
	switch sc := Scope(s); sc {
	case ScopeAll, ScopeSpecific, ScopeChanged:
		return sc, nil
	default:
		return "", fmt.Errorf("%w: %q (must be all, specific or changed)", ErrInvalidScope, s)
	}
}

// SplitFileList splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func SplitFileList(s string) []string {
	var files []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			files = append(files, p)
		}
	}
	return files
}

// SelectRequest describes which documents a run should process.
type SelectRequest struct {
	Trigger Trigger
	Scope   Scope  // manual runs only; empty = changed
	Files   string // comma-separated list for ScopeSpecific
}

// Selector decides which document files need (re)generation.
type Selector struct {
	Runner    CommandRunner
	Dir       string // working directory; relative paths resolve against it
	DocRoot   string
	Extension string
	BaseRev   string
	HeadRev   string
	Pathspec  string    // empty = ":(glob)<DocRoot>/**/*<Extension>"
	Warn      io.Writer // diff failures are reported here; nil = discard
}

// NewSelector returns a Selector with the default document layout and a
// real git runner.
func NewSelector() *Selector {
	return &Selector{
		Runner:    &ExecRunner{},
		DocRoot:   DefaultDocRoot,
		Extension: DefaultExtension,
		BaseRev:   DefaultBaseRev,
		HeadRev:   DefaultHeadRev,
	}
}

// Select returns the ordered, deduplicated list of existing document files
// for req. Change detection failures are not errors: they are reported to
// Warn and yield an empty selection. Only an invalid request or an
// unreadable document root returns an error.
func (s *Selector) Select(ctx context.Context, req SelectRequest) ([]string, error) {
	candidates, err := s.candidates(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.existing(candidates), nil
}

func (s *Selector) candidates(ctx context.Context, req SelectRequest) ([]string, error) {
	switch req.Trigger {
	case TriggerAutomatic:
		return s.changed(ctx), nil
	case TriggerManual:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTrigger, req.Trigger)
	}

	scope := req.Scope
	if scope == "" {
		scope = ScopeChanged
	}
	switch scope {
	case ScopeAll:
		return s.all()
	case ScopeSpecific:
		return SplitFileList(req.Files), nil
	case ScopeChanged:
		return s.changed(ctx), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
}

// changed runs the diff and swallows its failure.
func (s *Selector) changed(ctx context.Context) []string {
	files, err := s.diff(ctx)
	if err != nil {
		s.warnf("warning: %v; no files selected\n", err)
		return nil
	}
	return files
}

// all walks the document root in lexical order.
func (s *Selector) all() ([]string, error) {
	root := s.docRoot()
	ext := s.extension()
	var files []string

	err := filepath.WalkDir(s.resolve(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}
		rel := path
		if s.Dir != "" {
			if r, relErr := filepath.Rel(s.Dir, path); relErr == nil {
				rel = r
			}
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		s.warnf("warning: document root %s does not exist\n", root)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

// existing keeps regular files and drops duplicates, first occurrence wins.
func (s *Selector) existing(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		if !fileutil.FileExists(s.resolve(p)) {
			continue
		}
		files = append(files, p)
	}
	return files
}

func (s *Selector) resolve(path string) string {
	if s.Dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Dir, path)
}

func (s *Selector) docRoot() string {
	if s.DocRoot == "" {
		return DefaultDocRoot
	}
	return s.DocRoot
}

func (s *Selector) extension() string {
	switch {
	case s.Extension == "":
		return DefaultExtension
	case !strings.HasPrefix(s.Extension, "."):
		return "." + s.Extension
	default:
		return s.Extension
	}
}

func (s *Selector) warnf(format string, args ...any) {
	w := s.Warn
	if w == nil {
		w = io.Discard
	}
	fmt.Fprintf(w, format, args...)
}
