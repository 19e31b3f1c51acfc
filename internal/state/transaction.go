package state

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jbweber/vbdctl/api/v1alpha1"
)

// Executor is a single unit of administrative work.
//
// In production this is satisfied by the command package's Command values.
type Executor interface {
	Execute(ctx context.Context) (string, error)
}

// Factory builds the command for one transaction from the loaded state.
type Factory func(st *v1alpha1.State) (Executor, error)

// Runner wraps command execution in a load/execute/save transaction.
type Runner struct {
	store  Store
	logger *logrus.Logger
}

// NewRunner creates a Runner over store.
func NewRunner(store Store, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Runner{store: store, logger: logger}
}

// Run loads the state, builds a command with factory, executes it and, only
// if it succeeded, saves the state. A failing command leaves the persisted
// state untouched and its error is returned unchanged.
//
// If the save fails after a successful command, the command's output is
// returned together with an *IOError: any privileged action the command
// took has already happened and cannot be rolled back.
func (r *Runner) Run(ctx context.Context, factory Factory) (string, error) {
	log := r.logger.WithField("txn", uuid.New().String())

	st, err := r.store.Load(ctx)
	if err != nil {
		var ioErr *IOError
		if !errors.As(err, &ioErr) {
			err = &IOError{Op: "load", Err: err}
		}
		log.WithError(err).Error("failed to load state")
		return "", err
	}
	log.WithFields(logrus.Fields{
		"generation": st.Generation,
		"vbds":       len(st.VBDs),
	}).Debug("state loaded")

	cmd, err := factory(st)
	if err != nil {
		log.WithError(err).Debug("command not constructed, state not saved")
		return "", err
	}

	out, err := cmd.Execute(ctx)
	if err != nil {
		log.WithError(err).Info("command failed, state not saved")
		return "", err
	}

	if err := r.store.Save(ctx, st); err != nil {
		var ioErr *IOError
		if !errors.As(err, &ioErr) {
			err = &IOError{Op: "save", Err: err}
		}
		log.WithError(err).Error("command succeeded but state could not be saved; persisted state is now stale")
		return out, err
	}

	log.WithField("generation", st.Generation).Debug("state saved")
	return out, nil
}
