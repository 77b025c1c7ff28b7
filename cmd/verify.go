// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [code]",
	Short: "Print the accounts of a tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newCLIApp()
		if err != nil {
			return err
		}
		defer a.Close()

		accounts, err := a.service.Verify(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to verify tenant: %w", err)
		}

		return printTenantAccounts(cmd.OutOrStdout(), accounts)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
