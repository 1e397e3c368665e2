package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Manage weather provider credentials",
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List weather providers",
	RunE:  runProviderList,
}

var providerSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider>",
	Short: "Store the API key of a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runProviderSetKey,
}

var providerRemoveCmd = &cobra.Command{
	Use:   "remove <provider>",
	Short: "Remove the stored credentials of a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runProviderRemove,
}

func init() {
	rootCmd.AddCommand(providerCmd)
	providerCmd.AddCommand(providerListCmd, providerSetKeyCmd, providerRemoveCmd)
}

func runProviderList(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	providers, err := client.GetProviders(ctx)
	if err != nil {
		return err
	}

	printHeader("Weather providers", 80)
	for _, p := range providers {
		state := color.GreenString("✓ no key needed")
		if p.RequiresAuth && p.Configured {
			state = color.GreenString("✓ configured")
		} else if p.RequiresAuth {
			state = color.YellowString("⚠ API key missing")
		}
		fmt.Printf("%-14s %-24s %s\n", p.ID, p.Name, state)
		if p.Description != "" {
			fmt.Printf("               %s\n", faint(p.Description))
		}
	}
	printFooter(80)
	return nil
}

func runProviderSetKey(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}

	key, err := readPassword("API key: ")
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()
	if err := client.SetProviderKey(ctx, args[0], key); err != nil {
		return err
	}
	printSuccess("API key stored for %s", args[0])
	return nil
}

func runProviderRemove(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	if err := client.DeleteProviderKey(ctx, args[0]); err != nil {
		return err
	}
	printSuccess("Credentials removed for %s", args[0])
	return nil
}
