package command

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jbweber/vbdctl/api/v1alpha1"
	"github.com/jbweber/vbdctl/internal/helper"
	"github.com/jbweber/vbdctl/internal/loader"
	"github.com/jbweber/vbdctl/internal/state"
)

// writeState stores testState in a fresh state file and returns its path.
func writeState(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := loader.SaveToFile(testState(), path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}
	return path
}

func TestTransaction_CreateVbdDryRunPersistsBinding(t *testing.T) {
	path := writeState(t)
	store := state.NewFileStore(path, "")
	runner := state.NewRunner(store, nil)
	env := Env{Invoker: helper.NewDryRun(nil), ToolsDir: toolsDir}
	ctx := context.Background()

	out, err := runner.Run(ctx, func(st *v1alpha1.State) (state.Executor, error) {
		return NewCreateVbd(st, env, "vd1", 5, 2, v1alpha1.ModeReadWrite), nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out == "" {
		t.Error("expected a confirmation line")
	}

	after, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := after.GetVBD(5, 2)
	if !ok {
		t.Fatal("binding not persisted")
	}
	want := v1alpha1.VBD{Domain: 5, Number: 2, VirtualDisk: "vd1", Mode: v1alpha1.ModeReadWrite}
	if *v != want {
		t.Errorf("binding = %+v, want %+v", *v, want)
	}

	before := testState()
	if len(after.VBDs) != len(before.VBDs)+1 {
		t.Errorf("len(VBDs) = %d, want %d", len(after.VBDs), len(before.VBDs)+1)
	}
	if len(after.VirtualDisks) != len(before.VirtualDisks) || len(after.Partitions) != len(before.Partitions) {
		t.Error("unrelated state changed")
	}
}

func TestTransaction_UnknownPhysicalPartitionLeavesStateUnchanged(t *testing.T) {
	path := writeState(t)
	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	inv := newMockInvoker()
	runner := state.NewRunner(state.NewFileStore(path, ""), nil)
	env := Env{Invoker: inv, ToolsDir: toolsDir}

	_, err = runner.Run(context.Background(), func(st *v1alpha1.State) (state.Executor, error) {
		return NewCreateVbdFromPhysical(st, env, "part+", 3, 0, v1alpha1.ModeReadOnly), nil
	})

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if !strings.Contains(err.Error(), "part+") || !strings.Contains(err.Error(), "part3") {
		t.Errorf("error %q does not name both the pattern and the resolved partition", err)
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(original, current) {
		t.Error("state file changed after failed command")
	}
	if len(inv.calls) != 0 {
		t.Error("helper invoked")
	}
}

func TestTransaction_HelperFailureSkipsSave(t *testing.T) {
	path := writeState(t)
	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	inv := newMockInvoker()
	inv.invokeFunc = func(p string, args []string) (helper.Result, error) {
		return helper.Result{}, &helper.ExecutionError{Argv: append([]string{p}, args...), ExitCode: 1}
	}
	runner := state.NewRunner(state.NewFileStore(path, ""), nil)

	_, err = runner.Run(context.Background(), func(st *v1alpha1.State) (state.Executor, error) {
		return NewRevokePhysicalAccess(st, Env{Invoker: inv, ToolsDir: toolsDir}, 7, "part+", SubstUnset), nil
	})
	if !helper.IsExecutionError(err) {
		t.Fatalf("error = %v, want ExecutionError", err)
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(original, current) {
		t.Error("state file changed after helper failure")
	}
}
