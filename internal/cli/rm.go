package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PizaSukeruton/tmbot3000/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete an answer template",
		Run:   runRm,
	}

	cmd.Flags().StringP("term", "t", "", "Term identifier (required)")
	cmd.Flags().StringP("locale", "l", "en", "Locale")
	cmd.Flags().Bool("all", false, "Delete all versions")
	cmd.Flags().Bool("hard", false, "Hard delete (no soft-delete marker)")

	cmd.MarkFlagRequired("term")

	answersCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	term, _ := cmd.Flags().GetString("term")
	locale, _ := cmd.Flags().GetString("locale")
	all, _ := cmd.Flags().GetBool("all")
	hard, _ := cmd.Flags().GetBool("hard")

	s, err := openStore(loadProfile())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	err = s.Rm(cmd.Context(), store.RmParams{
		TermID:      term,
		Locale:      locale,
		AllVersions: all,
		Hard:        hard,
	})
	if err != nil {
		exitErr("rm", err)
	}

	fmt.Println(`{"ok":true}`)
}
