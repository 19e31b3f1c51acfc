package main

import (
	"fmt"
	"os"

	"github.com/jbweber/vbdctl/internal/command"
	"github.com/jbweber/vbdctl/internal/helper"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if h := hint(err); h != "" {
			fmt.Fprintln(os.Stderr, h)
		}
		os.Exit(1)
	}
}

// hint returns a follow-up line for errors the user can act on.
func hint(err error) string {
	switch {
	case command.IsValidation(err):
		return "Run 'vbdctl <command> --help' for usage."
	case command.IsConflict(err):
		return "The state was not modified. Use 'vbdctl vbd list' or 'vbdctl vd list' to inspect it."
	case helper.IsExecutionError(err):
		return "The helper failed; the state was not modified."
	}
	return ""
}
