package command

import (
	"context"

	"github.com/jbweber/vbdctl/api/v1alpha1"
	"github.com/jbweber/vbdctl/internal/helper"
)

// invokeCall records one helper invocation.
type invokeCall struct {
	path string
	args []string
}

// mockInvoker is a mock implementation of the Invoker interface for testing.
type mockInvoker struct {
	// Configurable behavior
	invokeFunc func(path string, args []string) (helper.Result, error)

	// Call tracking
	calls []invokeCall
}

// newMockInvoker creates a mock invoker that succeeds with empty output.
func newMockInvoker() *mockInvoker {
	m := &mockInvoker{}
	m.invokeFunc = func(path string, args []string) (helper.Result, error) {
		return helper.Result{Argv: append([]string{path}, args...)}, nil
	}
	return m
}

func (m *mockInvoker) Invoke(ctx context.Context, path string, args ...string) (helper.Result, error) {
	m.calls = append(m.calls, invokeCall{path: path, args: args})
	return m.invokeFunc(path, args)
}

// mockExpander is a mock implementation of the Expander interface.
type mockExpander struct {
	// names maps input to canonical names; unknown names pass through.
	names map[string]string
	err   error

	calls []string
}

func (m *mockExpander) Expand(ctx context.Context, name string) (string, error) {
	m.calls = append(m.calls, name)
	if m.err != nil {
		return "", m.err
	}
	if out, ok := m.names[name]; ok {
		return out, nil
	}
	return name, nil
}

// testState returns a state with two partitions, one virtual disk and one
// binding.
func testState() *v1alpha1.State {
	st := v1alpha1.NewState("test-host")
	st.Partitions = []v1alpha1.Partition{
		{Name: "sda5", Extent: v1alpha1.Extent{Disk: 0, Offset: 1048576, Size: 4194304}},
		{Name: "part7", Extent: v1alpha1.Extent{Disk: 2, Offset: 512, Size: 8192}},
	}
	st.VirtualDisks = []v1alpha1.VirtualDisk{
		{
			Key:       "vd1",
			Partition: "sda5",
			Extent:    v1alpha1.Extent{Disk: 0, Offset: 1048576, Size: 4194304},
			Mode:      v1alpha1.ModeReadWrite,
		},
	}
	st.VBDs = []v1alpha1.VBD{
		{Domain: 1, Number: 0, VirtualDisk: "vd1", Mode: v1alpha1.ModeReadOnly},
	}
	return st
}
