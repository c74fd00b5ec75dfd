package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-api/inkwell/internal/auth"
	"github.com/inkwell-api/inkwell/internal/daemon"
)

func init() { //nolint: gochecknoinits
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "Email of the new administrator")
	createSuperuserCmd.Flags().StringVar(&superuserPassword, "password", "",
		"Password of the new administrator; generated when empty")

	if err := createSuperuserCmd.MarkFlagRequired("email"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(createSuperuserCmd)
}

var (
	superuserEmail    string
	superuserPassword string

	createSuperuserCmd = &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff user holding the Administrator role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := daemon.Prepare(cfg)
			if err != nil {
				return err
			}

			provider := auth.NewLocalProvider(db, auth.NewTokenService(&cfg.Auth), cfg.Auth.DefaultRole)

			user, password, err := provider.CreateSuperuser(superuserEmail, superuserPassword)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "superuser %s created (id %d)\n", user.Email, user.ID)

			if superuserPassword == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "generated password: %s\n", password)
			}

			return nil
		},
	}
)
