// Webtint - map website colour signals onto the Catppuccin palette
//
// Webtint reads the colour signals harvested from a website and assigns
// every one of them a Catppuccin token, with optional AI refinement.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/jmylchreest/webtint/internal/cli"
)

func main() {
	// Provider API keys may live in a local .env; absence is not an error.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
