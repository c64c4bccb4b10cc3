package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"talentpool/internal/app"
	"talentpool/internal/security"
)

var createUserEmail string

// CreateUserCmd registers an account and prints its API token.
var CreateUserCmd = &cobra.Command{
	Use:   "create-user <username> <password>",
	Short: "Create a user and print its API token",
	Example: `  talentpool create-user recruiter 's3cret-passphrase'
  talentpool create-user recruiter 's3cret-passphrase' --email hr@example.com`,
	Args: cobra.ExactArgs(2),
	RunE: runCreateUser,
}

func init() {
	CreateUserCmd.Flags().StringVar(&createUserEmail, "email", "", "Optional e-mail address")
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := openBackend(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	auth := app.NewAuthService(store.users, store.tokens, security.NewPasswordHasher(bcrypt.DefaultCost))
	session, err := auth.Register(cmd.Context(), app.Credentials{
		Username: args[0],
		Email:    createUserEmail,
		Password: args[1],
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), session.Token)
	return nil
}
