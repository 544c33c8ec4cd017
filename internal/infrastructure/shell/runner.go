package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"
)

// Command describes one external program invocation. Dir is mandatory for
// repository-scoped commands: the runner never relies on the process working
// directory, so concurrent pipelines cannot interfere with each other.
type Command struct {
	Program string
	Args    []string
	Dir     string
	Stdin   string
}

// Result holds the outcome of one invocation. A non-zero exit code is a
// normal, representable outcome, not an error.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the command exited with code zero.
func (it Result) Succeeded() bool { return it.ExitCode == 0 }

// CommandRunner executes external commands with streamed and buffered output.
// An error is returned only when the command could not be run at all (missing
// binary, canceled context); tool failures surface through Result.ExitCode.
type CommandRunner interface {
	Run(ctx context.Context, command Command) (Result, error)
}

// OSCommandRunner runs commands with os/exec. Output is teed to the process
// streams for live progress while also being buffered for inspection.
type OSCommandRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewOSCommandRunner constructs a runner that streams to the process
// stdout/stderr.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{stdout: os.Stdout, stderr: os.Stderr}
}

// NewSilentCommandRunner constructs a runner that only buffers output,
// without echoing it. Used where live streaming would interleave with the
// caller's own reporting.
func NewSilentCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{stdout: io.Discard, stderr: io.Discard}
}

// Run executes the command and captures its outcome.
func (it *OSCommandRunner) Run(ctx context.Context, command Command) (Result, error) {
	logger.Debugf(
		"Running %s %s (in %s)",
		command.Program, strings.Join(command.Args, " "), command.Dir,
	)

	executable := exec.CommandContext(ctx, command.Program, command.Args...)
	executable.Dir = command.Dir

	var stdoutBuffer bytes.Buffer
	var stderrBuffer bytes.Buffer
	executable.Stdout = io.MultiWriter(&stdoutBuffer, it.stdout)
	executable.Stderr = io.MultiWriter(&stderrBuffer, it.stderr)

	if command.Stdin != "" {
		executable.Stdin = strings.NewReader(command.Stdin)
	}

	runErr := executable.Run()
	result := Result{
		Stdout: stdoutBuffer.String(),
		Stderr: stderrBuffer.String(),
	}

	if runErr != nil {
		exitErr := &exec.ExitError{}
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			logger.Debugf(
				"%s exited with code %d", command.Program, result.ExitCode,
			)
			return result, nil
		}
		return Result{}, runErr
	}

	return result, nil
}
