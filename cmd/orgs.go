package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matrixlogger/mxl/internal/api"
	"github.com/matrixlogger/mxl/internal/config"
	"github.com/matrixlogger/mxl/internal/session"
	"github.com/matrixlogger/mxl/internal/ui"
	"github.com/matrixlogger/mxl/pkg/types"
)

var orgsCmd = &cobra.Command{
	Use:     "orgs",
	Aliases: []string{"org", "organizations"},
	Short:   "Manage organizations",
}

var orgsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List organizations you belong to",
	RunE:  runOrgsList,
}

var orgsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an organization",
	Long: `Create an organization and make it the default when none is set.

Examples:
  mxl orgs create myteam
  mxl orgs create "My Team" --description "Production logging"`,
	Args: cobra.ExactArgs(1),
	RunE: runOrgsCreate,
}

var orgsGetCmd = &cobra.Command{
	Use:   "get [slug]",
	Short: "Show one organization in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOrgsGet,
}

var orgsUpdateCmd = &cobra.Command{
	Use:   "update [slug]",
	Short: "Update an organization's name, description or settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOrgsUpdate,
}

var (
	orgDescription   string
	orgNewName       string
	orgRetentionDays int
	orgsJSON         bool
)

func init() {
	rootCmd.AddCommand(orgsCmd)
	orgsCmd.AddCommand(orgsListCmd)
	orgsCmd.AddCommand(orgsCreateCmd)
	orgsCmd.AddCommand(orgsGetCmd)
	orgsCmd.AddCommand(orgsUpdateCmd)

	orgsListCmd.Flags().BoolVar(&orgsJSON, "json", false, "Print raw JSON")
	orgsCreateCmd.Flags().StringVar(&orgDescription, "description", "", "Organization description")
	orgsUpdateCmd.Flags().StringVar(&orgNewName, "name", "", "New organization name")
	orgsUpdateCmd.Flags().StringVar(&orgDescription, "description", "", "New description")
	orgsUpdateCmd.Flags().IntVar(&orgRetentionDays, "retention-days", 0, "Default log retention in days")
}

func runOrgsList(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	octx, err := loadOrganizations(cmd.Context(), mgr.Client(), false)
	if err != nil {
		return handleAPIError(mgr, err)
	}

	list := octx.Organizations()
	if orgsJSON {
		return json.NewEncoder(os.Stdout).Encode(list)
	}

	current := ""
	if org := octx.Current(); org != nil {
		current = org.Slug
	}
	ui.PrintOrganizationTable(list, current)
	return nil
}

func runOrgsCreate(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	org, err := mgr.Client().CreateOrganization(cmd.Context(), api.CreateOrganizationRequest{
		Name:        args[0],
		Description: orgDescription,
	})
	if err != nil {
		return handleAPIError(mgr, err)
	}

	fmt.Printf("Created organization %s (%s)\n", ui.NameStyle.Render(org.Name), org.Slug)

	// First organization becomes the default automatically.
	if config.GetSavedOrganization() == "" {
		if err := config.SetOrganization(org.Slug); err != nil {
			return err
		}
		fmt.Printf("Set as default organization.\n")
	}
	return nil
}

func runOrgsGet(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	org, err := resolveOrganization(cmd, mgr, args)
	if err != nil {
		return err
	}

	// Refetch by ID for settings and stats the list endpoint may omit.
	full, err := mgr.Client().GetOrganization(cmd.Context(), org.ID)
	if err != nil {
		return handleAPIError(mgr, err)
	}

	printOrganization(full)
	return nil
}

func runOrgsUpdate(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	org, err := resolveOrganization(cmd, mgr, args)
	if err != nil {
		return err
	}

	var req api.UpdateOrganizationRequest
	if orgNewName != "" {
		req.Name = &orgNewName
	}
	if orgDescription != "" {
		req.Description = &orgDescription
	}
	if orgRetentionDays > 0 {
		settings := types.OrganizationSettings{DefaultRetentionDays: orgRetentionDays}
		if org.Settings != nil {
			settings = *org.Settings
			settings.DefaultRetentionDays = orgRetentionDays
		}
		req.Settings = &settings
	}
	if req.Name == nil && req.Description == nil && req.Settings == nil {
		return fmt.Errorf("nothing to update; pass --name, --description or --retention-days")
	}

	updated, err := mgr.Client().UpdateOrganization(cmd.Context(), org.ID, req)
	if err != nil {
		return handleAPIError(mgr, err)
	}

	fmt.Printf("Updated organization %s\n", ui.NameStyle.Render(updated.Name))
	return nil
}

// resolveOrganization returns the organization named by the positional
// arg, or the current one when no arg was given.
func resolveOrganization(cmd *cobra.Command, mgr *session.Manager, args []string) (*types.Organization, error) {
	octx, err := loadOrganizations(cmd.Context(), mgr.Client(), false)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		org, err := octx.Select(args[0])
		if err != nil {
			return nil, fmt.Errorf("organization %q not found; run: mxl orgs list", args[0])
		}
		return org, nil
	}
	return octx.Require()
}

func printOrganization(org *types.Organization) {
	fmt.Printf("Name:        %s\n", ui.NameStyle.Render(org.Name))
	fmt.Printf("Slug:        %s\n", ui.IDStyle.Render(org.Slug))
	fmt.Printf("ID:          %s\n", ui.MutedStyle.Render(org.ID))
	fmt.Printf("Role:        %s\n", ui.RoleStyle(org.Role).Render(string(org.Role)))
	if org.Description != "" {
		fmt.Printf("Description: %s\n", org.Description)
	}
	if org.Settings != nil {
		fmt.Printf("Retention:   %d days\n", org.Settings.DefaultRetentionDays)
		if org.Settings.MaxApps > 0 {
			fmt.Printf("Max apps:    %d\n", org.Settings.MaxApps)
		}
	}
	if org.Stats != nil {
		fmt.Printf("Apps:        %d\n", org.Stats.Apps)
		fmt.Printf("Members:     %d\n", org.Stats.Members)
	}
	fmt.Printf("Created:     %s\n", ui.MutedStyle.Render(org.CreatedAt.Format("2006-01-02 15:04:05")))
}
