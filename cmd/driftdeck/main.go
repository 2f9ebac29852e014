package main

import (
	"os"

	"github.com/driftdeck/driftdeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
