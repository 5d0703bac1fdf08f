package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Show the current vocabulary",
		Long:  "Load and print the term and city vocabularies the parser matches against.",
		Run:   runVocab,
	}

	RootCmd.AddCommand(cmd)
}

func runVocab(cmd *cobra.Command, args []string) {
	p := loadProfile()
	log := newLogger(p)

	_, cache, closeStore, err := buildEngine(p, log)
	if err != nil {
		exitErr("build engine", err)
	}
	defer closeStore()

	if err := cache.Refresh(cmd.Context()); err != nil {
		exitErr("refresh", err)
	}

	snap := cache.Snapshot()
	out := map[string][]string{
		"terms":  snap.Terms,
		"cities": snap.Cities,
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
