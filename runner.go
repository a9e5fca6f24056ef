package docpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/alnah/go-docpdf/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
// Dir, when set, is the working directory of every command.
type ExecRunner struct {
	Dir string
}

// Compile-time interface implementation check.
var _ CommandRunner = (*ExecRunner)(nil)

// Run executes name with args and blocks until it exits. Cancelling ctx kills
// the command together with any children it spawned. A binary missing from
// PATH is reported as ErrToolNotFound.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- fixed tool names, arguments built internally
	cmd.Dir = r.Dir
	process.Isolate(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		err = errors.Join(ctx.Err(), err)
	}
	return stdout.String(), stderr.String(), err
}
