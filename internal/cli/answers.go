package cli

// answersCmd groups the answer-template store commands.

import (
	"github.com/spf13/cobra"
)

var answersCmd = &cobra.Command{
	Use:   "answers",
	Short: "Manage stored answer templates",
}

func init() {
	RootCmd.AddCommand(answersCmd)
}
