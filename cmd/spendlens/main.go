package main

import (
	"os"

	"github.com/spendlens/spendlens-backend/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
