package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/Davidlouiz/passerelle-vhf/pkg/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the gateway",
	Long:  `Sign in to the gateway and store the session token for later commands.`,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	RunE:  runLogout,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	RunE:  runPasswd,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed in user",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("username", "u", "", "username")
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(passwordBytes), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	store, err := cliSession()
	if err != nil {
		return err
	}

	if expired, _ := store.TakeExpired(); expired {
		printWarning("Your session has expired. Please log in again.")
	}

	username, _ := cmd.Flags().GetString("username")
	if username == "" {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Username: ")
		username, err = reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(username)
	}
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	client := api.NewClient(cfg.APIURL, api.WithTimeout(cfg.Timeout))
	result, err := client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := store.SetToken(result.AccessToken); err != nil {
		return err
	}
	logger.Debug("logged in", zap.String("username", username))

	printSuccess("Logged in as %s", username)
	if result.MustChangePassword {
		printWarning("You must change your password before continuing.")
		return changePassword(cmd)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := cliSession()
	if err != nil {
		return err
	}

	if token, _ := store.Token(); token != "" {
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		client := api.NewClient(cfg.APIURL, api.WithTimeout(cfg.Timeout), api.WithTokenStore(store))
		if err := client.Logout(ctx); err != nil {
			logger.Debug("gateway logout failed", zap.Error(err))
		}
	}

	if err := session.Logout(store); err != nil {
		return err
	}
	printSuccess("Logged out")
	return nil
}

func runPasswd(cmd *cobra.Command, args []string) error {
	return changePassword(cmd)
}

func changePassword(cmd *cobra.Command) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}

	current, err := readPassword("Current password: ")
	if err != nil {
		return err
	}
	next, err := readPassword("New password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if err := models.ValidatePasswordChange(next, confirm); err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()
	if err := client.ChangePassword(ctx, current, next); err != nil {
		return err
	}

	printSuccess("Password changed")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()
	user, err := client.Me(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("ID: %d\n", user.ID)
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Gateway: %s\n", cfg.APIURL)
	return nil
}
