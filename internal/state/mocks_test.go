package state

import (
	"context"

	"github.com/jbweber/vbdctl/api/v1alpha1"
)

// mockStore is an in-memory Store that records calls.
type mockStore struct {
	st      *v1alpha1.State
	loadErr error
	saveErr error

	loadCalls int
	saveCalls int
	saved     *v1alpha1.State
}

func newMockStore(st *v1alpha1.State) *mockStore {
	return &mockStore{st: st}
}

func (m *mockStore) Load(ctx context.Context) (*v1alpha1.State, error) {
	m.loadCalls++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.st.DeepCopy(), nil
}

func (m *mockStore) Save(ctx context.Context, st *v1alpha1.State) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = st.DeepCopy()
	m.st = st.DeepCopy()
	return nil
}

// funcExecutor adapts a function to Executor.
type funcExecutor func(ctx context.Context) (string, error)

func (f funcExecutor) Execute(ctx context.Context) (string, error) {
	return f(ctx)
}
