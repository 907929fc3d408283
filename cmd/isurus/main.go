package main

import (
	"fmt"
	"os"

	"github.com/datagazing/isurus/pkg/errors"
)

func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Typed errors were already logged where they occurred; anything
		// else (flag parsing, usage) still needs to reach the user.
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
