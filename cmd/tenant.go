// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canonical/tenant-bootstrap/pkg/provisioning"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants",
}

var registerTenantCmd = &cobra.Command{
	Use:   "register [code]",
	Short: "Register a tenant, doing nothing if the code is already taken",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newCLIApp()
		if err != nil {
			return err
		}
		defer a.Close()

		req, err := tenantRequestFromFlags(cmd, args[0])
		if err != nil {
			return err
		}

		result, err := a.service.RegisterTenant(a.context(cmd.Context()), req)
		if err != nil {
			return fmt.Errorf("failed to register tenant: %w", err)
		}

		return printTenantResult(cmd.OutOrStdout(), result)
	},
}

var listTenantsCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newCLIApp()
		if err != nil {
			return err
		}
		defer a.Close()

		tenants, err := a.service.ListTenants(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list tenants: %w", err)
		}

		return printTenants(cmd.OutOrStdout(), tenants)
	},
}

var activateTenantCmd = &cobra.Command{
	Use:   "activate [code]",
	Short: "Activate a tenant",
	Args:  cobra.ExactArgs(1),
	RunE:  runTenantStatus(true),
}

var deactivateTenantCmd = &cobra.Command{
	Use:   "deactivate [code]",
	Short: "Deactivate a tenant",
	Args:  cobra.ExactArgs(1),
	RunE:  runTenantStatus(false),
}

var tenantSettingsCmd = &cobra.Command{
	Use:   "settings [code] [json]",
	Short: "Replace the settings of a tenant",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := parseSettings(args[1])
		if err != nil {
			return err
		}

		a, err := newCLIApp()
		if err != nil {
			return err
		}
		defer a.Close()

		tenant, err := a.service.UpdateTenantSettings(a.context(cmd.Context()), args[0], settings)
		if err != nil {
			return fmt.Errorf("failed to update tenant settings: %w", err)
		}

		if isJSON() {
			return writeJSON(cmd.OutOrStdout(), tenant)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Tenant settings updated: %s (%s)\n", tenant.Code, formatSettings(tenant.Settings))
		return err
	},
}

func runTenantStatus(active bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newCLIApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.service.SetTenantStatus(a.context(cmd.Context()), args[0], active); err != nil {
			return fmt.Errorf("failed to update tenant: %w", err)
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Tenant %s: %s\n", statusWord(active), args[0])
		return err
	}
}

// tenantRequestFromFlags builds a TenantRequest from the tenant flags.
func tenantRequestFromFlags(cmd *cobra.Command, code string) (*provisioning.TenantRequest, error) {
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")
	passwordHash, _ := cmd.Flags().GetString("password-hash")
	rawSettings, _ := cmd.Flags().GetString("settings")

	if password != "" && passwordHash != "" {
		return nil, fmt.Errorf("--password and --password-hash are mutually exclusive")
	}

	settings, err := parseSettings(rawSettings)
	if err != nil {
		return nil, err
	}

	return &provisioning.TenantRequest{
		Code:         code,
		Name:         name,
		Password:     password,
		PasswordHash: passwordHash,
		Settings:     settings,
	}, nil
}

func addTenantFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Display name of the tenant")
	cmd.Flags().String("password", "", "Tenant password, stored as a bcrypt hash")
	cmd.Flags().String("password-hash", "", "Pre-computed bcrypt hash of the tenant password")
	cmd.Flags().String("settings", "", `Tenant settings as a JSON object, e.g. '{"quota_gb": 10}'`)
	_ = cmd.MarkFlagRequired("name")
}

func statusWord(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(registerTenantCmd)
	tenantCmd.AddCommand(listTenantsCmd)
	tenantCmd.AddCommand(activateTenantCmd)
	tenantCmd.AddCommand(deactivateTenantCmd)
	tenantCmd.AddCommand(tenantSettingsCmd)

	addTenantFlags(registerTenantCmd)
}
