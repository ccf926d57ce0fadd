package main

import (
	"os"

	"github.com/rauljordan/activate-stylus-program/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
