package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PizaSukeruton/tmbot3000/internal/flights"
)

func init() {
	cmd := &cobra.Command{
		Use:   "flights",
		Short: "List upcoming flights",
		Run:   runFlights,
	}

	cmd.Flags().String("to", "", "Only flights arriving in this city")
	cmd.Flags().String("from", "", "Only flights departing this city")
	cmd.Flags().Bool("today", false, "Only flights departing today")
	cmd.Flags().Bool("next", false, "Only the next flight")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 = all)")

	RootCmd.AddCommand(cmd)
}

func runFlights(cmd *cobra.Command, args []string) {
	to, _ := cmd.Flags().GetString("to")
	from, _ := cmd.Flags().GetString("from")
	today, _ := cmd.Flags().GetBool("today")
	next, _ := cmd.Flags().GetBool("next")
	limit, _ := cmd.Flags().GetInt("limit")

	p := loadProfile()
	log := newLogger(p)

	table := flights.NewTable(p.FlightsCSV, log)
	rows, err := table.Flights(cmd.Context())
	if err != nil {
		exitErr("load flights", err)
	}

	sched := &flights.Scheduler{
		DefaultZone: p.DefaultFlightZone,
		UserZone:    p.UserZone,
		Log:         log,
	}
	deps := sched.Upcoming(rows, flights.Filters{
		ToCity:   to,
		FromCity: from,
		Today:    today,
		NextOnly: next,
	}, limit)

	fmt.Println(sched.Render(deps))
}
