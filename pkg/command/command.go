// Package command runs external tools (package managers, the shadcn CLI,
// the dev server) one at a time and reports failures as SUBPROCESS errors.
package command

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mdscaffold/pkg/errors"
)

// Command describes a single subprocess invocation.
type Command struct {
	Name  string    // Executable, resolved through PATH
	Args  []string  // Arguments, passed without a shell
	Dir   string    // Working directory; empty means the current one
	Stdin io.Reader // Optional standard input
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes commands. Run blocks until the command exits and returns
// an error for a non-zero exit status.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands with os/exec, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger
}

// NewExecRunner creates a runner that streams to the process's stdout and
// stderr.
func NewExecRunner(logger *log.Logger) *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
}

// Run executes cmd and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if r.Logger != nil {
		r.Logger.Info("Running command", "cmd", cmd.String(), "dir", cmd.Dir)
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	if err := c.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return errors.Wrap(errors.ErrCodeSubprocess, err, "command failed: %s (exit code %d)", cmd, exitErr.ExitCode())
		}
		return errors.Wrap(errors.ErrCodeSubprocess, err, "command failed: %s", cmd)
	}
	return nil
}
