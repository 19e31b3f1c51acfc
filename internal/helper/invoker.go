package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Result is the outcome of a helper invocation.
type Result struct {
	// Argv is the command line, executable first.
	Argv []string

	// Output is the helper's standard output, or the rendered command
	// line for a simulated run.
	Output string

	// Simulated is true when nothing was executed.
	Simulated bool
}

// Invoker runs a helper executable with explicit arguments.
type Invoker interface {
	Invoke(ctx context.Context, path string, args ...string) (Result, error)
}

// Args converts structured values to the decimal/string forms the helpers
// expect on their command line.
func Args(values ...interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch x := v.(type) {
		case string:
			out = append(out, x)
		case int:
			out = append(out, strconv.Itoa(x))
		case int32:
			out = append(out, strconv.FormatInt(int64(x), 10))
		case int64:
			out = append(out, strconv.FormatInt(x, 10))
		case uint64:
			out = append(out, strconv.FormatUint(x, 10))
		case fmt.Stringer:
			out = append(out, x.String())
		default:
			out = append(out, fmt.Sprint(x))
		}
	}
	return out
}

// Render returns the deterministic text used by DryRun for a command line.
func Render(argv []string) string {
	return "Would run: " + strings.Join(argv, " ")
}

// Exec runs helpers as child processes.
type Exec struct {
	logger *logrus.Logger
}

// NewExec creates an invoker that spawns real processes.
func NewExec(logger *logrus.Logger) *Exec {
	if logger == nil {
		logger = discardLogger()
	}
	return &Exec{logger: logger}
}

// Invoke runs path with args and blocks until it exits. There is no
// timeout; the helper's own termination is the only completion signal.
func (e *Exec) Invoke(ctx context.Context, path string, args ...string) (Result, error) {
	argv := append([]string{path}, args...)
	res := Result{Argv: argv}

	log := e.logger.WithField("argv", strings.Join(argv, " "))
	log.Debug("running privileged helper")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.WithField("exit_code", exitErr.ExitCode()).Warn("privileged helper failed")
			return res, &ExecutionError{
				Argv:     argv,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		log.WithError(err).Warn("privileged helper could not be started")
		return res, &ExecutionError{Argv: argv, ExitCode: -1, Err: err}
	}

	res.Output = stdout.String()
	log.Debug("privileged helper succeeded")
	return res, nil
}

// DryRun renders helper command lines instead of running them.
type DryRun struct {
	logger *logrus.Logger

	// Calls records every command line rendered, in order.
	Calls [][]string
}

// NewDryRun creates an invoker that never spawns processes.
func NewDryRun(logger *logrus.Logger) *DryRun {
	if logger == nil {
		logger = discardLogger()
	}
	return &DryRun{logger: logger}
}

// Invoke records and renders the command line. It never fails.
func (d *DryRun) Invoke(ctx context.Context, path string, args ...string) (Result, error) {
	argv := append([]string{path}, args...)
	d.Calls = append(d.Calls, argv)
	d.logger.WithField("argv", strings.Join(argv, " ")).Info("dry run: helper not executed")
	return Result{Argv: argv, Output: Render(argv), Simulated: true}, nil
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
