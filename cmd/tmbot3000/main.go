package main

import (
	"os"

	"github.com/PizaSukeruton/tmbot3000/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
