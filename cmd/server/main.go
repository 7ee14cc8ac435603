package main

import (
	"fmt"
	"os"

	"produce-reports/internal/adapters/cli"
)

func main() {
	if err := cli.NewServerCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
