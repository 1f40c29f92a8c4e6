package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ceciliaos/ceciliad/config"
	"github.com/ceciliaos/ceciliad/credstore"
	"github.com/ceciliaos/ceciliad/homefs"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a user account",
	Long: `Creates a user account directly against the configured storage,
bypassing the HTTP API. Useful when registration is disabled.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		if !credstore.ValidateUsername(username) {
			return fmt.Errorf("invalid username %q: must match [a-z][a-z0-9_]{2,31}", username)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		password, err := promptPassword()
		if err != nil {
			return err
		}

		repo, closeRepo, err := openRepository(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeRepo()

		creds := credstore.New(repo, cfg.HomesDir)
		user, err := creds.Register(username, password)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := homefs.EnsureHome(user.HomeDir); err != nil {
			return fmt.Errorf("failed to create home directory: %w", err)
		}

		fmt.Printf("Created user %s (home: %s)\n", user.Username, user.HomeDir)
		return nil
	},
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(password), nil
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)
}
