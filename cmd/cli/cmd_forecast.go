package main

import (
	"fmt"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/timeline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Show the planned announcements",
	Long: `Show the announcements the gateway plans to transmit over the next hours,
grouped by day.`,
	RunE: runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
	forecastCmd.Flags().Int("hours", api.DefaultForecastHours, "forecast horizon in hours (1-168)")
	forecastCmd.Flags().Int("next", 0, "only show the next N transmissions")
}

func runForecast(cmd *cobra.Command, args []string) error {
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
	now := time.Now()

	if next, _ := cmd.Flags().GetInt("next"); next > 0 {
		result, err := client.GetNextTransmissions(ctx, next)
		if err != nil {
			return err
		}
		printHeader(fmt.Sprintf("Next %d transmissions", result.Count), 80)
		printDays(timeline.GroupByDay(result.Events, now, loc))
		printFooter(80)
		return nil
	}

	hours, _ := cmd.Flags().GetInt("hours")
	hours = api.ClampForecastHours(hours)
	forecast, err := client.GetForecast(ctx, hours)
	if err != nil {
		return err
	}

	page := timeline.NewPage(hours, forecast, now, loc)
	printHeader(fmt.Sprintf("Forecast: next %dh (%d announcements)", page.Hours, page.Total), 80)
	if page.Empty() {
		fmt.Println("Nothing scheduled over this period.")
	}
	printDays(page.Days)
	if page.Simulated > 0 {
		printWarning("%d simulated announcements: no real measurement was available, values are placeholders.", page.Simulated)
	}
	printFooter(80)
	return nil
}

func printDays(days []timeline.Day) {
	for _, day := range days {
		color.Cyan("\n%s", day.Label)
		for _, ev := range day.Events {
			printForecastEvent(ev)
		}
	}
}

func printForecastEvent(ev timeline.Event) {
	sim := ""
	if ev.Simulated {
		sim = color.YellowString(" [simulated]")
	}
	fmt.Printf("  %s  %-12s %-24s%s\n", ev.Clock(), ev.Delay, truncate(ev.ChannelName, 24), sim)
	if ev.Measurement != nil {
		fmt.Printf("      wind %.1f km/h, gusts %.1f km/h, %s\n", ev.Measurement.WindAvgKmh, ev.Measurement.WindMaxKmh, directionText(*ev.Measurement))
	}
	if ev.RenderedText != "" {
		fmt.Printf("      %q\n", ev.RenderedText)
	}
}
