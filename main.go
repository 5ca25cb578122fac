package main

import (
	"os"

	"github.com/ajvb/jobboard/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
