package main

import (
	"os"

	"github.com/ppiankov/veritas/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
