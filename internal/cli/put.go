package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PizaSukeruton/tmbot3000/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put [template]",
		Short: "Store an answer template",
		Long:  "Store a new version of an answer template. Template text can be a positional arg or piped via stdin.",
		Run:   runPut,
	}

	cmd.Flags().StringP("term", "t", "", "Term identifier (required)")
	cmd.Flags().StringP("locale", "l", "en", "Locale")

	cmd.MarkFlagRequired("term")

	answersCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) {
	term, _ := cmd.Flags().GetString("term")
	locale, _ := cmd.Flags().GetString("locale")

	var template string
	if len(args) > 0 {
		template = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			template = string(b)
		}
	}

	if strings.TrimSpace(template) == "" {
		exitErr("put", fmt.Errorf("template is required (positional arg or stdin)"))
	}

	s, err := openStore(loadProfile())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	a, err := s.Put(cmd.Context(), store.PutParams{
		TermID:   term,
		Locale:   locale,
		Template: strings.TrimSpace(template),
	})
	if err != nil {
		exitErr("put", err)
	}

	b, _ := json.Marshal(a)
	fmt.Println(string(b))
}
