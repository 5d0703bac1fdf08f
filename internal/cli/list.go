package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PizaSukeruton/tmbot3000/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List current answer templates",
		Run:   runList,
	}

	cmd.Flags().StringP("locale", "l", "", "Filter by locale")
	cmd.Flags().Int("limit", 50, "Max results")

	answersCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	locale, _ := cmd.Flags().GetString("locale")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore(loadProfile())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	answers, err := s.List(cmd.Context(), store.ListParams{Locale: locale, Limit: limit})
	if err != nil {
		exitErr("list", err)
	}

	if len(answers) == 0 {
		fmt.Println("[]")
		return
	}
	b, _ := json.MarshalIndent(answers, "", "  ")
	fmt.Println(string(b))
}
