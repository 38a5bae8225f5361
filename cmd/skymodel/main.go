package main

import (
	"os"

	"github.com/msto63/skymodel/cmd/skymodel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
