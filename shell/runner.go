// Package shell spawns authorized commands inside a user's home directory.
//
// The runner is the execution boundary behind the policy gate: it receives
// a command line only after the gate has allowed its leading token. An
// allow verdict covers the program name, not its arguments — the runner
// confines the process to the user's home and a minimal environment, and
// nothing more.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single command execution.
const DefaultTimeout = 30 * time.Second

// defaultPath is the PATH handed to spawned commands.
const defaultPath = "/usr/local/bin:/usr/bin:/bin"

// Result captures the outcome of a finished command.
type Result struct {
	Output   string
	Stderr   string
	ExitCode int
}

// Runner executes shell command lines with a bounded lifetime.
type Runner struct {
	timeout time.Duration
	path    string
}

// Option configures the Runner.
type Option func(*Runner)

// WithTimeout overrides the default execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRunner creates a command runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		timeout: DefaultTimeout,
		path:    defaultPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SplitCommand returns the leading token of a command line — the name the
// policy gate decides on — and whether the line was non-empty.
func SplitCommand(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// Run executes the command line via `sh -c` with the working directory and
// HOME set to homeDir. The environment is reduced to HOME, USER, and PATH.
// A non-zero exit is not an error; infrastructure failures are.
func (r *Runner) Run(ctx context.Context, username, homeDir, line string) (Result, error) {
	if err := os.MkdirAll(homeDir, 0o750); err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", line)
	cmd.Dir = homeDir
	cmd.Env = []string{
		"HOME=" + homeDir,
		"USER=" + username,
		"PATH=" + r.path,
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Output: strings.TrimRight(stdout.String(), "\n"),
		Stderr: strings.TrimRight(stderr.String(), "\n"),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}
