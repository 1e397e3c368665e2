package main

import (
	"fmt"
	"strings"

	"github.com/Davidlouiz/passerelle-vhf/pkg/history"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the transmission history",
	Long: `Show the transmission history, newest first. Dates are entered in the
console time zone as YYYY-MM-DDTHH:MM.`,
	RunE: runHistory,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show transmission statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)

	flags := historyCmd.Flags()
	flags.Int("page", 1, "page number")
	flags.Int("channel", 0, "filter by channel id")
	flags.String("status", "", "filter by status (SENT, FAILED, ABORTED, PENDING)")
	flags.String("mode", "", "filter by mode (SCHEDULED, MANUAL_TEST)")
	flags.String("from", "", "start date")
	flags.String("to", "", "end date")

	statsCmd.Flags().Int("hours", 24, "aggregation window in hours")
}

func runHistory(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	page, _ := flags.GetInt("page")
	channelID, _ := flags.GetInt("channel")
	status, _ := flags.GetString("status")
	mode, _ := flags.GetString("mode")
	from, _ := flags.GetString("from")
	to, _ := flags.GetString("to")

	state := history.State{}.ApplyFilters(history.Filters{
		ChannelID: channelID,
		Status:    strings.ToUpper(status),
		Mode:      strings.ToUpper(mode),
		Start:     from,
		End:       to,
	})
	if page > 1 {
		state = state.WithPage(page - 1)
	}

	query, err := state.Query(loc)
	if err != nil {
		return err
	}
	result, err := client.GetHistory(ctx, query)
	if err != nil {
		return err
	}

	view := history.NewPage(state, result, loc)
	printHeader(fmt.Sprintf("Transmission history (%d records)", view.Pagination.Total), 100)
	if len(view.Rows) == 0 {
		fmt.Println("No transmissions match these filters.")
	}
	for _, row := range view.Rows {
		when := row.When
		if row.Pending {
			when = faint(when)
		}
		fmt.Printf("%-19s  %-20s %-12s %-10s %s\n",
			when,
			truncate(row.ChannelName, 20),
			badgeString(row.ModeBadge),
			badgeString(row.StatusBadge),
			truncate(row.RenderedText, 40),
		)
		if row.ErrorMessage != "" {
			printWarning("%s", row.ErrorMessage)
		}
	}
	if view.Pagination.TotalPages > 0 {
		fmt.Printf("\nPage %d / %d\n", view.Pagination.Number(), view.Pagination.TotalPages)
	}
	printFooter(100)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	hours, _ := cmd.Flags().GetInt("hours")
	stats, err := client.GetTxStats(ctx, hours)
	if err != nil {
		return err
	}

	printHeader(fmt.Sprintf("Transmissions, last %dh", hours), 60)
	fmt.Printf("Total:    %d\n", stats.Total)
	for _, status := range []string{models.StatusSent, models.StatusFailed, models.StatusAborted} {
		fmt.Printf("%-9s %d\n", badgeString(models.StatusBadge(status))+":", stats.Count(status))
	}
	if len(stats.ByChannel) > 0 {
		fmt.Println("\nBy channel:")
		for name, count := range stats.ByChannel {
			fmt.Printf("  %-24s %d\n", name, count)
		}
	}
	printFooter(60)
	return nil
}
