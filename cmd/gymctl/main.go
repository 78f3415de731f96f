package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/magabrotheeeer/gym-membership/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %s\n", err)
		fmt.Fprintln(os.Stderr, "run 'gymctl --help' for usage")
		os.Exit(1)
	}
}
