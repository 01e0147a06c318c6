package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command is one external process invocation.
type Command struct {
	Dir   string
	Name  string
	Args  []string
	Stdin io.Reader
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result carries the captured output of a finished command.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Combined returns stdout followed by stderr.
func (r Result) Combined() string {
	return string(r.Stdout) + string(r.Stderr)
}

// CommandRunner runs external programs. A non-zero exit is an error naming the command and exit code.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return res, fmt.Errorf("command failed: %s: exit code %d", cmd, exitErr.ExitCode())
		}
		return res, fmt.Errorf("command failed: %s: %w", cmd, err)
	}
	return res, nil
}
