package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import answer templates from JSON",
		Long:  "Import answer templates from a JSON array on stdin. Each entry needs term_id, locale and template.",
		Run:   runImport,
	}

	answersCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var answers []model.Answer
	if err := json.Unmarshal(data, &answers); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore(loadProfile())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), answers)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}
