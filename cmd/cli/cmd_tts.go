package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/Davidlouiz/passerelle-vhf/pkg/workflow"
	"github.com/spf13/cobra"
)

var ttsCmd = &cobra.Command{
	Use:   "tts",
	Short: "Text-to-speech tools",
}

var ttsVoicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the available voices",
	RunE:  runTTSVoices,
}

var ttsSayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Synthesise a text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTTSSay,
}

func init() {
	rootCmd.AddCommand(ttsCmd)
	ttsCmd.AddCommand(ttsVoicesCmd, ttsSayCmd)
	ttsSayCmd.Flags().String("voice", models.DefaultVoiceID, "voice id")
	ttsSayCmd.Flags().StringP("output", "o", "", "download the audio to this file")
}

func runTTSVoices(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	voices, err := client.GetVoices(ctx)
	if err != nil {
		return err
	}

	printHeader("Voices", 80)
	for _, v := range voices {
		fmt.Printf("%-28s %-30s %s\n", v.ID, v.Label, strings.Join(v.Languages, ", "))
	}
	printFooter(80)
	return nil
}

func runTTSSay(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	voice, _ := cmd.Flags().GetString("voice")
	req := models.SynthesizeRequest{Text: strings.Join(args, " "), VoiceID: voice}

	fmt.Println("Synthesizing...")
	result, err := workflow.NewRunner(client, workflow.NewTracker()).Synthesize(ctx, req)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		printSuccess("Audio: %s%s", client.BaseURL(), result.AudioURL)
		return nil
	}

	resp, err := client.OpenAudio(ctx, api.AudioFile(result.AudioURL))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to download audio: %w", err)
	}
	printSuccess("Audio saved to %s (%d bytes)", output, n)
	return nil
}
