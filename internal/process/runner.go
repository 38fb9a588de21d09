// Package process provides a typed adapter around external command
// invocation, so callers of tools like the binlog decoder can be tested
// without actually executing anything.
//
// We shell out rather than linking decoding logic in, because the decoder
// is an independently versioned tool and its output format is its public
// interface. All errors from external commands carry the combined output
// for diagnostics.
package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result holds the outcome of one external command invocation.
type Result struct {
	// Output is the combined stdout and stderr of the command.
	Output string

	// ExitCode is the command's exit status. Zero on success.
	ExitCode int
}

// Runner launches a named external command with arguments and captures
// its exit status and combined output.
//
// The error return is reserved for failures to run the command at all
// (binary not found, context cancelled). A command that runs and exits
// non-zero returns a Result with the exit code and a nil error — the
// caller decides whether a non-zero exit is a failure.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner is the production Runner backed by os/exec.
//
// Dir, when non-empty, sets the working directory for launched commands.
// The struct is otherwise stateless and safe for concurrent use.
type ExecRunner struct {
	// Dir is the working directory for launched commands. Empty means
	// the current process's working directory.
	Dir string
}

// NewRunner creates an ExecRunner with no working directory override.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and captures its combined output.
//
// CombinedOutput interleaves stdout and stderr the way a terminal would,
// which is what we want for surfacing tool diagnostics to the user.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir

	output, err := cmd.CombinedOutput()
	result := Result{Output: string(output)}

	if err != nil {
		// A non-zero exit is a normal, reportable outcome; anything
		// else (binary missing, ctx cancelled, signal) is an error.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("run %s: %w", name, err)
	}

	return result, nil
}

// LookupError reports whether the error from Run indicates the command
// binary was not found on PATH, so the CLI can print an actionable
// message ("install X or pass --decoder").
func LookupError(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return errors.Is(execErr.Err, exec.ErrNotFound)
	}
	return false
}

// FakeRunner is a test double that records invocations and returns
// scripted results. The zero value succeeds every call with empty output.
type FakeRunner struct {
	// Calls records each invocation as "name arg1 arg2 ...".
	Calls []string

	// Results are returned in order; when exhausted, the zero Result
	// is returned.
	Results []Result

	// Err, when non-nil, is returned from every call.
	Err error
}

// Run records the invocation and returns the next scripted result.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	f.Calls = append(f.Calls, strings.Join(append([]string{name}, args...), " "))
	if f.Err != nil {
		return Result{}, f.Err
	}
	if len(f.Results) == 0 {
		return Result{}, nil
	}
	res := f.Results[0]
	f.Results = f.Results[1:]
	return res, nil
}
