package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask the bot a question",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAsk,
	}

	cmd.Flags().Bool("json", false, "Print the full response object")
	cmd.Flags().String("locale", "", "Answer locale (default from profile)")

	RootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) {
	asJSON, _ := cmd.Flags().GetBool("json")
	locale, _ := cmd.Flags().GetString("locale")

	p := loadProfile()
	log := newLogger(p)
	if locale == "" {
		locale = p.Locale
	}

	eng, cache, closeStore, err := buildEngine(p, log)
	if err != nil {
		exitErr("build engine", err)
	}
	defer closeStore()

	// One-shot: load the vocabulary before answering.
	if err := cache.Refresh(cmd.Context()); err != nil {
		log.Warn().Err(err).Msg("vocab refresh failed")
	}

	resp := eng.GenerateResponse(cmd.Context(), model.Request{
		Message: strings.Join(args, " "),
		Member:  model.Member{Locale: locale},
	})

	if asJSON {
		b, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Println(resp.Text)
}
