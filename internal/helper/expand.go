package helper

import (
	"context"
	"strings"

	"github.com/jbweber/vbdctl/internal/naming"
)

// Expander canonicalises partition names with "xi_helper expand <name>".
type Expander struct {
	invoker Invoker
	path    string
}

// NewExpander creates an Expander that runs the utility helper found in
// toolsDir through inv.
func NewExpander(inv Invoker, toolsDir string) *Expander {
	return &Expander{
		invoker: inv,
		path:    naming.HelperPath(toolsDir, naming.HelperUtil),
	}
}

// Expand returns the canonical form of name. A simulated invocation leaves
// the name unchanged.
func (x *Expander) Expand(ctx context.Context, name string) (string, error) {
	res, err := x.invoker.Invoke(ctx, x.path, "expand", name)
	if err != nil {
		return "", err
	}
	if res.Simulated {
		return name, nil
	}

	expanded := strings.TrimSpace(res.Output)
	if expanded == "" {
		return "", &ExecutionError{Argv: res.Argv, ExitCode: 0, Err: errEmptyOutput}
	}
	return expanded, nil
}
