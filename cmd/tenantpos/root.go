package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tenantpos",
	Short: "Multi-tenant point-of-sale authorization service",
	Long: `tenantpos serves the tenant-scoped POS API. Configuration is read from
TENANTPOS_* environment variables.`,
	SilenceUsage: true,
	RunE:         serveCmd.RunE,
}

// Execute runs the root command; serve is the default.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
