// Command formcheck validates a values file against one of the form versions
// without running the server.
//
// Usage:
//
//	formcheck validate --form 3 values.yaml
//	formcheck versions
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errInvalid signals that validation failed and the errors were printed.
var errInvalid = errors.New("form values are invalid")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "formcheck",
		Short:         "Validate advanced-form values offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd(), newVersionsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
