// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dsn      string
	envFile  string
	format   string
	logLevel string
	actor    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "tenant-bootstrap",
	Short:         "Tenant Bootstrap",
	Long:          `Tenant Bootstrap CLI for provisioning tenants and their administrative accounts.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "PostgreSQL DSN connection string, overrides the DSN environment variable")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Optional .env file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level, overrides the LOG_LEVEL environment variable")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Operator name recorded in audit logs")
}
