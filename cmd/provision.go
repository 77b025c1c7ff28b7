// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// provisionCmd registers a tenant and its administrative account, then prints
// the verification tuples of the tenant.
var provisionCmd = &cobra.Command{
	Use:   "provision [code]",
	Short: "Register a tenant and its administrative account in one transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newCLIApp()
		if err != nil {
			return err
		}
		defer a.Close()

		tenantReq, err := tenantRequestFromFlags(cmd, args[0])
		if err != nil {
			return err
		}
		username, _ := cmd.Flags().GetString("username")
		accountReq := accountRequestFromFlags(cmd, args[0], username)

		ctx := a.context(cmd.Context())

		result, err := a.service.Provision(ctx, tenantReq, accountReq)
		if err != nil {
			return fmt.Errorf("failed to provision tenant: %w", err)
		}

		if isJSON() {
			return writeJSON(cmd.OutOrStdout(), result)
		}

		out := cmd.OutOrStdout()
		if err := printTenantResult(out, result.Tenant); err != nil {
			return err
		}
		if err := printAccountResult(out, args[0], result.Account); err != nil {
			return err
		}

		accounts, err := a.service.Verify(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to verify tenant: %w", err)
		}

		return printTenantAccounts(out, accounts)
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)

	addTenantFlags(provisionCmd)
	addAccountFlags(provisionCmd)
	provisionCmd.Flags().String("username", "admin", "Username of the administrative account")
}
