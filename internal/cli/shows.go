package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PizaSukeruton/tmbot3000/internal/shows"
)

func init() {
	cmd := &cobra.Command{
		Use:   "shows",
		Short: "List show records",
		Run:   runShows,
	}

	cmd.Flags().String("city", "", "Only the first show in this city")

	RootCmd.AddCommand(cmd)
}

func runShows(cmd *cobra.Command, args []string) {
	city, _ := cmd.Flags().GetString("city")

	p := loadProfile()
	log := newLogger(p)

	src := shows.NewSource(p.ShowsCSV, log)
	recs, err := src.Shows(cmd.Context())
	if err != nil {
		exitErr("load shows", err)
	}

	if city != "" {
		rec, ok := shows.FirstByCity(recs, city)
		if !ok {
			fmt.Println("{}")
			return
		}
		recs = recs[:0]
		recs = append(recs, rec)
	}

	out := make([]map[string]string, 0, len(recs))
	for _, rec := range recs {
		row := make(map[string]string, rec.Len())
		for _, k := range rec.Keys() {
			v, _ := rec.Get(k)
			row[k] = v
		}
		out = append(out, row)
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
