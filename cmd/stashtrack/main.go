package main

import (
	"os"

	"github.com/mossline/stashtrack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
