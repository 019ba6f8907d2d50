package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/bg3compat/cmd/bg3compat"
	"github.com/arthur-debert/bg3compat/pkg/errors"
	"github.com/arthur-debert/bg3compat/pkg/style"
)

func main() {
	rootCmd := bg3compat.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		_, _ = fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// Usage problems get the help of the root command
		if errors.IsErrorCode(err, errors.ErrInvalidInput) {
			_, _ = fmt.Fprintln(os.Stderr)
			_ = rootCmd.Help()
		}
		os.Exit(1)
	}
}
