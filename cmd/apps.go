package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matrixlogger/mxl/internal/api"
	"github.com/matrixlogger/mxl/internal/session"
	"github.com/matrixlogger/mxl/internal/ui"
	"github.com/matrixlogger/mxl/pkg/types"
)

var appsCmd = &cobra.Command{
	Use:     "apps",
	Aliases: []string{"app"},
	Short:   "Manage apps (log sources)",
}

var appsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List apps in the current organization",
	RunE:  runAppsList,
}

var appsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Register a new log source",
	Long: `Register a new app in the current organization. The server
generates an API key; pass it to your log shipper.

Examples:
  mxl apps create web-api
  mxl apps create worker --retention-days 14`,
	Args: cobra.ExactArgs(1),
	RunE: runAppsCreate,
}

var appsGetCmd = &cobra.Command{
	Use:   "get <app>",
	Short: "Show one app, including its full API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppsGet,
}

var appsUpdateCmd = &cobra.Command{
	Use:   "update <app>",
	Short: "Update an app's name, description or retention",
	Args:  cobra.ExactArgs(1),
	RunE:  runAppsUpdate,
}

var appsDeleteCmd = &cobra.Command{
	Use:     "delete <app>",
	Short:   "Delete an app and its stored logs",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"rm"},
	RunE:    runAppsDelete,
}

var (
	appDescription   string
	appNewName       string
	appRetentionDays int
	appsJSON         bool
	appDeleteYes     bool
)

func init() {
	rootCmd.AddCommand(appsCmd)
	appsCmd.AddCommand(appsListCmd)
	appsCmd.AddCommand(appsCreateCmd)
	appsCmd.AddCommand(appsGetCmd)
	appsCmd.AddCommand(appsUpdateCmd)
	appsCmd.AddCommand(appsDeleteCmd)

	appsListCmd.Flags().BoolVar(&appsJSON, "json", false, "Print raw JSON")
	appsCreateCmd.Flags().StringVar(&appDescription, "description", "", "App description")
	appsCreateCmd.Flags().IntVar(&appRetentionDays, "retention-days", 0, "Log retention in days (defaults to the organization setting)")
	appsUpdateCmd.Flags().StringVar(&appNewName, "name", "", "New app name")
	appsUpdateCmd.Flags().StringVar(&appDescription, "description", "", "New description")
	appsUpdateCmd.Flags().IntVar(&appRetentionDays, "retention-days", 0, "New log retention in days")
	appsDeleteCmd.Flags().BoolVarP(&appDeleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runAppsList(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	octx, err := loadOrganizations(cmd.Context(), mgr.Client(), false)
	if err != nil {
		return handleAPIError(mgr, err)
	}
	org, err := octx.Require()
	if err != nil {
		return err
	}

	apps, err := mgr.Client().OrganizationApps(cmd.Context(), org.ID)
	if err != nil {
		return handleAPIError(mgr, err)
	}

	if appsJSON {
		return json.NewEncoder(os.Stdout).Encode(apps)
	}
	fmt.Printf("Apps in %s\n", ui.NameStyle.Render(org.Name))
	ui.PrintAppTable(apps)
	return nil
}

func runAppsCreate(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	octx, err := loadOrganizations(cmd.Context(), mgr.Client(), false)
	if err != nil {
		return handleAPIError(mgr, err)
	}
	org, err := octx.Require()
	if err != nil {
		return err
	}

	app, err := mgr.Client().CreateApp(cmd.Context(), api.CreateAppRequest{
		Name:           args[0],
		Description:    appDescription,
		RetentionDays:  appRetentionDays,
		OrganizationID: org.ID,
	})
	if err != nil {
		return handleAPIError(mgr, err)
	}

	fmt.Printf("Created app %s\n", ui.NameStyle.Render(app.Name))
	fmt.Printf("API Key: %s\n", ui.IDStyle.Render(app.APIKey))
	fmt.Println(ui.MutedStyle.Render("Store the key with your log shipper; view it again with: mxl apps get " + app.Name))
	return nil
}

func runAppsGet(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	app, err := resolveApp(cmd, mgr, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Name:        %s\n", ui.NameStyle.Render(app.Name))
	fmt.Printf("ID:          %s\n", ui.MutedStyle.Render(app.ID))
	fmt.Printf("API Key:     %s\n", ui.IDStyle.Render(app.APIKey))
	fmt.Printf("Retention:   %d days\n", app.RetentionDays)
	if app.Description != "" {
		fmt.Printf("Description: %s\n", app.Description)
	}
	if app.CreatedBy != nil {
		fmt.Printf("Created by:  %s <%s>\n", app.CreatedBy.Name, app.CreatedBy.Email)
	}
	fmt.Printf("Created:     %s (%s)\n",
		app.CreatedAt.Format("2006-01-02 15:04:05"), ui.FormatAge(app.CreatedAt))
	return nil
}

func runAppsUpdate(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	app, err := resolveApp(cmd, mgr, args[0])
	if err != nil {
		return err
	}

	var req api.UpdateAppRequest
	if appNewName != "" {
		req.Name = &appNewName
	}
	if appDescription != "" {
		req.Description = &appDescription
	}
	if appRetentionDays > 0 {
		req.RetentionDays = &appRetentionDays
	}
	if req.Name == nil && req.Description == nil && req.RetentionDays == nil {
		return fmt.Errorf("nothing to update; pass --name, --description or --retention-days")
	}

	updated, err := mgr.Client().UpdateApp(cmd.Context(), app.ID, req)
	if err != nil {
		return handleAPIError(mgr, err)
	}

	fmt.Printf("Updated app %s\n", ui.NameStyle.Render(updated.Name))
	return nil
}

func runAppsDelete(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	app, err := resolveApp(cmd, mgr, args[0])
	if err != nil {
		return err
	}

	if !appDeleteYes {
		fmt.Printf("Delete app %s and all its stored logs? [y/N] ", ui.NameStyle.Render(app.Name))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := mgr.Client().DeleteApp(cmd.Context(), app.ID); err != nil {
		return handleAPIError(mgr, err)
	}

	fmt.Printf("Deleted app %s\n", app.Name)
	return nil
}

// resolveApp finds an app in the current organization by ID, name or slug.
func resolveApp(cmd *cobra.Command, mgr *session.Manager, nameOrID string) (*types.App, error) {
	octx, err := loadOrganizations(cmd.Context(), mgr.Client(), false)
	if err != nil {
		return nil, handleAPIError(mgr, err)
	}
	org, err := octx.Require()
	if err != nil {
		return nil, err
	}

	apps, err := mgr.Client().OrganizationApps(cmd.Context(), org.ID)
	if err != nil {
		return nil, handleAPIError(mgr, err)
	}
	for i := range apps {
		if apps[i].ID == nameOrID || apps[i].Name == nameOrID || apps[i].Slug == nameOrID {
			return &apps[i], nil
		}
	}
	return nil, fmt.Errorf("app %q not found in %s; run: mxl apps list", nameOrID, org.Name)
}
