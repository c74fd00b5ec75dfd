package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkwell-api/inkwell/internal/daemon"
	"github.com/inkwell-api/inkwell/internal/db/controller/role"
)

func init() { //nolint: gochecknoinits
	rolesCmd.AddCommand(rolesSeedCmd, rolesListCmd, rolesDeleteCmd)
	rootCmd.AddCommand(rolesCmd)
}

var (
	rolesCmd = &cobra.Command{
		Use:   "roles",
		Short: "Manage roles",
	}

	rolesSeedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Create the default roles or restore their permissions",
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

			roles, err := role.List(db)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d roles present\n", len(roles))

			return nil
		},
	}

	rolesListCmd = &cobra.Command{
		Use:   "list",
		Short: "List roles with their permissions",
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

			roles, err := role.List(db)
			if err != nil {
				return err
			}

			for i := range roles {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\t%s\n",
					roles[i].ID,
					roles[i].Name,
					roles[i].Permissions,
					strings.Join(roles[i].PermissionLabels(), ", "),
				)
			}

			return nil
		},
	}

	rolesDeleteCmd = &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a role; its users keep no role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := daemon.Prepare(cfg)
			if err != nil {
				return err
			}

			if err := role.DeleteByName(db, args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "role %q deleted\n", args[0])

			return nil
		},
	}
)
