package main

import (
	"github.com/spf13/cobra"

	oteladapter "github.com/neomorfeo/tenantpos/internal/adapter/otel"
	"github.com/neomorfeo/tenantpos/internal/adapter/sqlite"
	"github.com/neomorfeo/tenantpos/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Run database migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := "up"
		if len(args) > 0 {
			command = args[0]
		}

		specs, err := config.Process()
		if err != nil {
			return err
		}

		db, err := oteladapter.OpenDB(specs.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		return sqlite.Migrate(cmd.Context(), db, command)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
