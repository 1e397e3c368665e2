package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/Davidlouiz/passerelle-vhf/pkg/workflow"
	"github.com/spf13/cobra"
)

var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Manage announcement channels",
	Long:  `List, add, edit, test and preview announcement channels.`,
}

var channelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all channels",
	RunE:  runChannelList,
}

var channelAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new channel",
	RunE:  runChannelAdd,
}

var channelEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a channel",
	Args:  cobra.ExactArgs(1),
	RunE:  runChannelEdit,
}

var channelToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Enable or disable a channel",
	Args:  cobra.ExactArgs(1),
	RunE:  runChannelToggle,
}

var channelDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a channel",
	Args:  cobra.ExactArgs(1),
	RunE:  runChannelDelete,
}

var channelTestCmd = &cobra.Command{
	Use:   "test <id>",
	Short: "Fetch a live measurement for a channel's station",
	Args:  cobra.ExactArgs(1),
	RunE:  runChannelTest,
}

var channelPreviewCmd = &cobra.Command{
	Use:   "preview <id>",
	Short: "Render and synthesise a channel announcement",
	Args:  cobra.ExactArgs(1),
	RunE:  runChannelPreview,
}

func init() {
	rootCmd.AddCommand(channelCmd)
	channelCmd.AddCommand(channelListCmd, channelAddCmd, channelEditCmd, channelToggleCmd,
		channelDeleteCmd, channelTestCmd, channelPreviewCmd)

	addFlags := channelAddCmd.Flags()
	addFlags.String("name", "", "channel name")
	addFlags.String("station-url", "", "station page URL at its provider")
	addFlags.String("template", "", "announcement template")
	addFlags.String("voice", models.DefaultVoiceID, "TTS voice id")
	addFlags.String("offsets", "0", "comma separated offsets in seconds")

	editFlags := channelEditCmd.Flags()
	editFlags.String("name", "", "channel name")
	editFlags.String("template", "", "announcement template")
	editFlags.String("voice", "", "TTS voice id")
	editFlags.String("offsets", "", "comma separated offsets in seconds")

	channelDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", arg)
	}
	return id, nil
}

func runChannelList(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	channels, err := client.GetChannels(ctx)
	if err != nil {
		return err
	}
	providers, err := client.GetProviders(ctx)
	if err != nil {
		return err
	}
	index := models.ProviderIndex(providers)

	if len(channels) == 0 {
		fmt.Println("No channels configured yet.")
		return nil
	}

	printHeader("Channels", 100)
	fmt.Printf("%-4s %-24s %-14s %-10s %-22s %s\n", "ID", "Name", "Provider", "Station", "Status", "Offsets")
	fmt.Println(strings.Repeat("-", 100))
	for _, ch := range channels {
		fmt.Printf("%-4d %-24s %-14s %-10s %-22s %s\n",
			ch.ID,
			truncate(ch.Name, 24),
			ch.ProviderID,
			ch.StationID,
			badgeString(ch.DisplayStatus(index).Badge()),
			ch.OffsetsText(),
		)
	}
	printFooter(100)
	return nil
}

func channelInputFromFlags(cmd *cobra.Command, current *models.Channel) models.ChannelInput {
	get := func(name, fallback string) string {
		if !cmd.Flags().Changed(name) && current != nil {
			return fallback
		}
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	var name, template, voice, offsets string
	if current != nil {
		name, template, voice, offsets = current.Name, current.TemplateText, current.VoiceID, current.OffsetsText()
	}
	stationURL := ""
	if current == nil {
		stationURL, _ = cmd.Flags().GetString("station-url")
	}

	return models.NewChannelInput(
		get("name", name),
		stationURL,
		get("template", template),
		get("voice", voice),
		get("offsets", offsets),
	)
}

func runChannelAdd(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	channel, err := client.SaveChannel(ctx, 0, channelInputFromFlags(cmd, nil))
	if err != nil {
		return err
	}
	printSuccess("Channel created with ID: %d (%s, station %s)", channel.ID, channel.ProviderID, channel.StationID)
	return nil
}

func runChannelEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	current, err := client.GetChannel(ctx, id)
	if err != nil {
		return err
	}
	channel, err := client.SaveChannel(ctx, id, channelInputFromFlags(cmd, current))
	if err != nil {
		return err
	}
	printSuccess("Channel %d updated", channel.ID)
	return nil
}

func runChannelToggle(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	result, err := client.ToggleChannel(ctx, id)
	if err != nil {
		return err
	}
	printSuccess("Channel %d: %s", id, onOff(result.Enabled))
	return nil
}

func runChannelDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	channel, err := client.GetChannel(ctx, id)
	if err != nil {
		return err
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		reader := bufio.NewReader(os.Stdin)
		fmt.Printf("\n⚠ Delete channel %q? This cannot be undone. (yes/no): ", channel.Name)
		confirm, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(confirm)) != "yes" {
			fmt.Println("Deletion cancelled.")
			return nil
		}
	}

	if err := client.DeleteChannel(ctx, id); err != nil {
		return err
	}
	printSuccess("Channel %q deleted", channel.Name)
	return nil
}

func runChannelTest(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
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

	fmt.Println("Testing...")
	result, err := workflow.NewRunner(client, workflow.NewTracker()).TestMeasurement(ctx, id)
	if err != nil {
		return err
	}

	m := result.Measurement
	printHeader("Measurement: "+result.Channel.Name, 60)
	fmt.Printf("Date:       %s (%d min ago)\n", formatTime(m.MeasuredAt, loc), result.AgeMinutes)
	fmt.Printf("Average:    %.1f km/h\n", m.WindAvgKmh)
	fmt.Printf("Gust:       %.1f km/h\n", m.WindMaxKmh)
	fmt.Printf("Minimum:    %s\n", formatKmh(m.WindMinKmh))
	fmt.Printf("Direction:  %s\n", directionText(m))
	printFooter(60)
	return nil
}

func directionText(m models.Measurement) string {
	switch {
	case m.WindDirectionDeg != nil && m.WindDirection != "":
		return fmt.Sprintf("%s (%.0f°)", m.WindDirection, *m.WindDirectionDeg)
	case m.WindDirectionDeg != nil:
		return fmt.Sprintf("%.0f°", *m.WindDirectionDeg)
	case m.WindDirection != "":
		return m.WindDirection
	default:
		return "-"
	}
}

func runChannelPreview(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
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

	fmt.Println("Generating...")
	result, err := workflow.NewRunner(client, workflow.NewTracker()).Preview(ctx, id)
	if err != nil {
		return err
	}

	printHeader("Preview: "+result.Channel.Name, 60)
	fmt.Printf("Measurement: %s (%d min ago)\n", formatTime(result.Measurement.MeasuredAt, loc), result.AgeMinutes)
	fmt.Printf("Wind:        %.1f km/h, gusts %.1f km/h\n", result.Measurement.WindAvgKmh, result.Measurement.WindMaxKmh)
	fmt.Printf("\n%s\n\n", result.RenderedText)
	fmt.Printf("Audio: %s%s\n", client.BaseURL(), result.AudioURL)
	if result.WasCached {
		fmt.Println("(audio served from cache)")
	} else {
		fmt.Printf("(audio generated at %s)\n", time.Now().In(loc).Format("15:04:05"))
	}
	printFooter(60)
	return nil
}
