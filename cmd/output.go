// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/canonical/tenant-bootstrap/internal/types"
	"github.com/canonical/tenant-bootstrap/pkg/provisioning"
)

func isJSON() bool {
	return format == "json"
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTenantResult(out io.Writer, r *provisioning.TenantResult) error {
	if isJSON() {
		return writeJSON(out, r)
	}

	_, err := fmt.Fprintf(out, "Tenant %s: %s (ID: %s)\n", r.Outcome, r.Tenant.Code, r.Tenant.ID)
	return err
}

func printAccountResult(out io.Writer, code string, r *provisioning.AccountResult) error {
	if isJSON() {
		return writeJSON(out, r)
	}

	_, err := fmt.Fprintf(out, "Account %s: %s/%s (ID: %s, role: %s)\n", r.Outcome, code, r.Account.Username, r.Account.ID, r.Account.Role)
	return err
}

func printTenants(out io.Writer, tenants []*types.Tenant) error {
	if isJSON() {
		if tenants == nil {
			tenants = []*types.Tenant{}
		}
		return writeJSON(out, tenants)
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tNAME\tACTIVE\tSETTINGS\tCREATED_AT")
	for _, t := range tenants {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%s\n", t.ID, t.Code, t.Name, t.Active, formatSettings(t.Settings), t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	}
	return w.Flush()
}

func printTenantAccounts(out io.Writer, accounts []*types.TenantAccount) error {
	if isJSON() {
		if accounts == nil {
			accounts = []*types.TenantAccount{}
		}
		return writeJSON(out, accounts)
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TENANT_ID\tTENANT\tCODE\tACCOUNT_ID\tUSERNAME\tEMAIL\tROLE\tACTIVE")
	for _, a := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%v\n", a.TenantID, a.TenantName, a.TenantCode, a.AccountID, a.Username, a.Email, a.Role, a.AccountActive)
	}
	return w.Flush()
}

// formatSettings renders settings as sorted key=value pairs.
func formatSettings(s types.Settings) string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, s[k]))
	}
	return strings.Join(pairs, ",")
}

func parseSettings(raw string) (types.Settings, error) {
	if raw == "" {
		return nil, nil
	}

	var s types.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("settings must be a JSON object: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("settings must be a JSON object")
	}
	return s, nil
}
