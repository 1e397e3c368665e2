package main

import (
	"fmt"
	"strings"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change the system settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change system settings",
	Long:  `Change system settings. Only the flags given are changed.`,
	RunE:  runSettingsSet,
}

var emissionCmd = &cobra.Command{
	Use:       "emission <on|off>",
	Short:     "Switch radio transmission on or off",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE:      runEmission,
}

var runnerCmd = &cobra.Command{
	Use:       "runner <start|stop>",
	Short:     "Start or stop reception",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"start", "stop"},
	RunE:      runRunner,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsSetCmd, emissionCmd, runnerCmd)

	flags := settingsSetCmd.Flags()
	flags.Int("poll-interval", 0, "measurement poll interval in seconds (10-600)")
	flags.Int("pause", 0, "pause between announcements in seconds (0-60)")
	flags.String("gpio-pin", "", "PTT GPIO pin (0-40, empty for mock)")
	flags.Int("active-level", 0, "PTT active level (0 or 1)")
	flags.Int("lead-ms", 0, "PTT lead time in ms (0-2000)")
	flags.Int("tail-ms", 0, "PTT tail time in ms (0-2000)")
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	settings, err := client.GetSettings(ctx)
	if err != nil {
		return err
	}
	status, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}

	printHeader("Settings", 60)
	fmt.Printf("Reception:             %s\n", runnerString(status.Runner()))
	fmt.Printf("Emission:              %s\n", onOff(settings.MasterEnabled))
	fmt.Printf("Poll interval:         %ds\n", settings.PollIntervalSeconds)
	fmt.Printf("Announcement pause:    %ds\n", settings.InterAnnouncementSecs)
	fmt.Printf("PTT GPIO pin:          %s\n", gpioText(settings.PTTGPIOPin))
	fmt.Printf("PTT active level:      %d\n", settings.PTTActiveLevel)
	fmt.Printf("PTT lead / tail:       %d ms / %d ms\n", settings.PTTLeadMs, settings.PTTTailMs)
	fmt.Printf("TX timeout:            %ds\n", settings.TxTimeoutSeconds)
	printFooter(60)
	return nil
}

func gpioText(pin *int) string {
	if pin == nil {
		return "mock"
	}
	return fmt.Sprintf("%d", *pin)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	current, err := client.GetSettings(ctx)
	if err != nil {
		return err
	}
	update := current.Update()

	flags := cmd.Flags()
	intFlags := map[string]*int{
		"poll-interval": &update.PollIntervalSeconds,
		"pause":         &update.InterAnnouncementSecs,
		"active-level":  &update.PTTActiveLevel,
		"lead-ms":       &update.PTTLeadMs,
		"tail-ms":       &update.PTTTailMs,
	}
	for name, target := range intFlags {
		if flags.Changed(name) {
			*target, _ = flags.GetInt(name)
		}
	}
	if flags.Changed("gpio-pin") {
		raw, _ := flags.GetString("gpio-pin")
		pin, err := models.ParseGPIOPin(raw)
		if err != nil {
			return err
		}
		update.PTTGPIOPin = pin
	}

	if _, err := client.UpdateSettings(ctx, update); err != nil {
		return err
	}
	printSuccess("Settings saved")
	return nil
}

func runEmission(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	settings, err := client.SetEmission(ctx, strings.EqualFold(args[0], "on"))
	if err != nil {
		return err
	}
	printSuccess("Emission: %s", onOff(settings.MasterEnabled))
	return nil
}

func runRunner(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	var msg *models.Message
	if args[0] == "start" {
		msg, err = client.StartRunner(ctx)
	} else {
		msg, err = client.StopRunner(ctx)
	}
	if err != nil {
		return err
	}
	if msg.Message != "" {
		printSuccess("%s", msg.Message)
		return nil
	}
	if args[0] == "start" {
		printSuccess("Reception started")
	} else {
		printSuccess("Reception stopped")
	}
	return nil
}
