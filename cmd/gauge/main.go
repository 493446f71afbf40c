package main

import (
	"os"

	"github.com/zoobzio/capitan"

	"github.com/zoobzio/gauge/cmd/gauge/commands"
)

func main() {
	err := commands.Execute()
	capitan.Shutdown()
	if err != nil {
		os.Exit(1)
	}
}
