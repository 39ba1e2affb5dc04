package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"mediaspawner/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		// Bad input exits 2 so scripts can tell it apart from infrastructure
		// failures.
		if services.IsUserError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
