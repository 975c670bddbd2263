// Package main provides the entry point for emux.
package main

import (
	"fmt"
	"os"

	"github.com/abdullathedruid/emux/internal/app"
	"github.com/abdullathedruid/emux/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data directory: %v\n", err)
		os.Exit(1)
	}

	workdir := "."
	if len(os.Args) > 1 {
		workdir = os.Args[1]
	}

	application, err := app.New(cfg, workdir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting emux: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
