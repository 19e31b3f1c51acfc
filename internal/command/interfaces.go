package command

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/jbweber/vbdctl/internal/helper"
)

// Command is one administrative operation.
//
// Execute returns the text to show the user, which may be empty. The
// state a command was built from is mutated in place; persisting it is
// the caller's job.
type Command interface {
	Execute(ctx context.Context) (string, error)

	// name identifies the operation in logs and keeps the set closed.
	name() string
}

// Invoker runs privileged helper executables.
//
// In production this is satisfied by *helper.Exec or *helper.DryRun.
// In tests, this is satisfied by mock implementations.
type Invoker interface {
	Invoke(ctx context.Context, path string, args ...string) (helper.Result, error)
}

// Expander canonicalises a resolved partition name.
//
// In production this is satisfied by *helper.Expander.
type Expander interface {
	Expand(ctx context.Context, name string) (string, error)
}

// Env carries the collaborators shared by all commands of one invocation.
type Env struct {
	// Invoker runs the privileged helpers. Required by the physical
	// access commands.
	Invoker Invoker

	// Expander is optional; when nil, resolved partition names are looked
	// up as they are.
	Expander Expander

	// ToolsDir is the directory holding the helper executables.
	ToolsDir string

	Logger *logrus.Logger
}

func (e Env) logger() *logrus.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return discardLogger
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Name returns the operation name of c.
func Name(c Command) string {
	return c.name()
}
