package worker

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// fakeRunner records commands and creates the file a command names as its output.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []Command
	stdin  [][]byte
	failOn string
	stdout []byte
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
	if cmd.Stdin != nil {
		b, err := io.ReadAll(cmd.Stdin)
		if err != nil {
			return Result{}, err
		}
		f.stdin = append(f.stdin, b)
	}
	if f.failOn != "" && cmd.Name == f.failOn {
		return Result{Stderr: []byte("boom")}, errors.New("command failed: " + cmd.String() + ": exit code 1")
	}
	if cmd.Dir != "" && cmd.Name == "convert" && len(cmd.Args) > 0 {
		out := cmd.Args[len(cmd.Args)-1]
		if err := os.WriteFile(filepath.Join(cmd.Dir, out), []byte("jpeg:"+out), 0o644); err != nil {
			return Result{}, err
		}
	}
	return Result{Stdout: f.stdout}, nil
}

func (f *fakeRunner) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Name
	}
	return out
}
