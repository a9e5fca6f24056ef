package docpdf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-docpdf/internal/hints"
)

// DiffArgs returns the git arguments listing the documents changed between
// the selector's base and head revisions.
func (s *Selector) DiffArgs() []string {
	base, head := s.BaseRev, s.HeadRev
	if base == "" {
		base = DefaultBaseRev
	}
	if head == "" {
		head = DefaultHeadRev
	}

	var args []string
	if s.Dir != "" {
		args = append(args, "-C", s.Dir)
	}
	return append(args, "diff", "--name-only", base, head, "--", s.pathspec())
}

func (s *Selector) pathspec() string {
	if s.Pathspec != "" {
		return s.Pathspec
	}
	return ":(glob)" + strings.TrimSuffix(s.docRoot(), "/") + "/**/*" + s.extension()
}

// diff runs git and parses its newline-separated output.
func (s *Selector) diff(ctx context.Context) ([]string, error) {
	runner := s.Runner
	if runner == nil {
		runner = &ExecRunner{}
	}

	stdout, stderr, err := runner.Run(ctx, "git", s.DiffArgs()...)
	if err != nil {
		if errors.Is(err, ErrToolNotFound) {
			return nil, fmt.Errorf("%w: %v%s", ErrSelection, err, hints.ForToolNotFound("git"))
		}
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: git diff: %s%s", ErrSelection, msg, hints.ForShallowClone(stderr))
	}
	return parseLines(stdout), nil
}

// parseLines splits command output into trimmed, non-empty lines.
func parseLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
