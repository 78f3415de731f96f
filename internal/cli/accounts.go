package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

var errEmptyPassword = errors.New("password must not be empty")

func newMigrateCmd(d Deps, configPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, err := d.Migrate(configPath())
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "schema is at version %d\n", version)
			return nil
		},
	}
}

func newAddUserCmd(d Deps, configPath func() string) *cobra.Command {
	var username, role, password string

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a staff account",
		Long:  "Create a staff account. The password is prompted when --password is not given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := passwordOrPrompt(d, cmd, password)
			if err != nil {
				return err
			}

			accounts, closeFn, err := d.OpenAccounts(cmd.Context(), configPath())
			if err != nil {
				return err
			}
			defer closeFn()

			uid, err := accounts.Create(cmd.Context(), strings.TrimSpace(username), pwd, role)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "account %s (%s) created: %s\n", username, role, uid)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&role, "role", "r", models.RoleUser, "account role: admin or user")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password, prompted when empty")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newResetPasswordCmd(d Deps, configPath func() string) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "resetpassword",
		Short: "Set a new password for a staff account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := passwordOrPrompt(d, cmd, password)
			if err != nil {
				return err
			}

			accounts, closeFn, err := d.OpenAccounts(cmd.Context(), configPath())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := accounts.UpdatePassword(cmd.Context(), strings.TrimSpace(username), pwd); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "password for %s updated\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password, prompted when empty")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func passwordOrPrompt(d Deps, cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.OutOrStdout(), "Enter password: ")
	pwd, err := d.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errEmptyPassword
	}
	return string(pwd), nil
}
