package main

import (
	"os"

	"github.com/fastorm/fastorm/cmd/fastorm/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
