package main

import (
	"os"

	kronoscmder "github.com/kronoshq/kronos/cmd/kronos"
)

func main() {
	cmd := kronoscmder.NewKronosCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
