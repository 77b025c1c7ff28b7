// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canonical/tenant-bootstrap/internal/types"
	"github.com/canonical/tenant-bootstrap/pkg/provisioning"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage tenant accounts",
}

var registerAccountCmd = &cobra.Command{
	Use:   "register [tenant-code] [username]",
	Short: "Register an account under an existing tenant",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newCLIApp()
		if err != nil {
			return err
		}
		defer a.Close()

		req := accountRequestFromFlags(cmd, args[0], args[1])

		result, err := a.service.RegisterAccount(a.context(cmd.Context()), req)
		if err != nil {
			return fmt.Errorf("failed to register account: %w", err)
		}

		return printAccountResult(cmd.OutOrStdout(), args[0], result)
	},
}

var activateAccountCmd = &cobra.Command{
	Use:   "activate [tenant-code] [username]",
	Short: "Activate an account",
	Args:  cobra.ExactArgs(2),
	RunE:  runAccountStatus(true),
}

var deactivateAccountCmd = &cobra.Command{
	Use:   "deactivate [tenant-code] [username]",
	Short: "Deactivate an account",
	Args:  cobra.ExactArgs(2),
	RunE:  runAccountStatus(false),
}

func runAccountStatus(active bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newCLIApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.service.SetAccountStatus(a.context(cmd.Context()), args[0], args[1], active); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Account %s: %s/%s\n", statusWord(active), args[0], args[1])
		return err
	}
}

func accountRequestFromFlags(cmd *cobra.Command, code, username string) *provisioning.AccountRequest {
	email, _ := cmd.Flags().GetString("email")
	role, _ := cmd.Flags().GetString("role")

	return &provisioning.AccountRequest{
		TenantCode: code,
		Username:   username,
		Email:      email,
		Role:       role,
	}
}

func addAccountFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "Login email of the account")
	cmd.Flags().String("role", types.RoleAdmin, "Role of the account (admin or member)")
	_ = cmd.MarkFlagRequired("email")
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(registerAccountCmd)
	accountCmd.AddCommand(activateAccountCmd)
	accountCmd.AddCommand(deactivateAccountCmd)

	addAccountFlags(registerAccountCmd)
}
