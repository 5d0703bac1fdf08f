package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PizaSukeruton/tmbot3000/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve an answer template",
		Run:   runGet,
	}

	cmd.Flags().StringP("term", "t", "", "Term identifier (required)")
	cmd.Flags().StringP("locale", "l", "en", "Locale")
	cmd.Flags().Bool("history", false, "Return all versions (newest first)")
	cmd.Flags().IntP("version", "v", 0, "Specific version number")

	cmd.MarkFlagRequired("term")

	answersCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	term, _ := cmd.Flags().GetString("term")
	locale, _ := cmd.Flags().GetString("locale")
	history, _ := cmd.Flags().GetBool("history")
	version, _ := cmd.Flags().GetInt("version")

	s, err := openStore(loadProfile())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	answers, err := s.Get(cmd.Context(), store.GetParams{
		TermID:  term,
		Locale:  locale,
		History: history,
		Version: version,
	})
	if err != nil {
		exitErr("get", err)
	}

	if history || len(answers) > 1 {
		b, _ := json.MarshalIndent(answers, "", "  ")
		fmt.Println(string(b))
	} else {
		b, _ := json.MarshalIndent(answers[0], "", "  ")
		fmt.Println(string(b))
	}
}
