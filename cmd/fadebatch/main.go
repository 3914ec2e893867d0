package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fadebatch/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		if services.IsConfiguration(err) {
			fmt.Fprintln(os.Stderr, "Run `fadebatch presets` to list valid presets or `fadebatch check` to verify the setup.")
			os.Exit(2)
		}
		os.Exit(1)
	}
}
