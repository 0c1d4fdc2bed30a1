package main

import (
	"os"

	"github.com/kmowery/weightline/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
