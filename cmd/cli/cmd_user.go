package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
	Long:  `Commands for managing operator accounts of the gateway.`,
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List operator accounts",
	RunE:  runListUsers,
}

var createUserCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Create a new operator account",
	Long: `Create a new operator account. The gateway generates the password; it is
shown once and never stored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreateUser,
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an operator account",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteUser,
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(listUsersCmd, createUserCmd, deleteUserCmd)
	deleteUserCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func runListUsers(cmd *cobra.Command, args []string) error {
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
	users, err := client.GetUsers(ctx)
	if err != nil {
		return err
	}
	me, err := client.Me(ctx)
	if err != nil {
		return err
	}

	printHeader("Users", 80)
	for _, u := range users {
		name := u.Username
		if u.ID == me.ID {
			name += color.CyanString(" (you)")
		}
		flag := ""
		if u.MustChangePassword {
			flag = color.YellowString("must change password")
		}
		fmt.Printf("%-4d %-30s last login %-19s %s\n", u.ID, name, formatTime(u.LastLoginAt, loc), flag)
	}
	printFooter(80)
	return nil
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	client, _, err := newGateway()
	if err != nil {
		return err
	}

	var username string
	if len(args) == 1 {
		username = args[0]
	} else {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Enter username: ")
		username, err = reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	created, err := client.CreateUser(ctx, username)
	if err != nil {
		return err
	}

	fmt.Printf("User created successfully!\n")
	fmt.Printf("ID: %d\n", created.ID)
	fmt.Printf("Username: %s\n", created.Username)
	fmt.Printf("Password: %s\n", color.New(color.Bold).Sprint(created.GeneratedPassword))
	printWarning("Write this password down now: it will not be shown again.")
	return nil
}

func runDeleteUser(cmd *cobra.Command, args []string) error {
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

	me, err := client.Me(ctx)
	if err != nil {
		return err
	}
	if me.ID == id {
		return fmt.Errorf("you cannot delete your own account")
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		reader := bufio.NewReader(os.Stdin)
		fmt.Printf("\n⚠ Delete user %d? (yes/no): ", id)
		confirm, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(confirm)) != "yes" {
			fmt.Println("Deletion cancelled.")
			return nil
		}
	}

	if err := client.DeleteUser(ctx, id); err != nil {
		return err
	}
	printSuccess("User %d deleted", id)
	return nil
}
