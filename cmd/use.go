package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matrixlogger/mxl/internal/config"
	"github.com/matrixlogger/mxl/internal/ui"
)

var useCmd = &cobra.Command{
	Use:   "use [organization]",
	Short: "Set the default organization",
	Long: `Set the default organization for subsequent commands.

With no argument an interactive selector opens. The selection is
validated against the organizations you belong to and saved in
~/.mxl/config.yaml.

Examples:
  mxl use myteam            # Switch to the myteam organization
  mxl use                   # Pick one interactively`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUse,
}

func init() {
	rootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	octx, err := loadOrganizations(cmd.Context(), mgr.Client(), false)
	if err != nil {
		return handleAPIError(mgr, err)
	}

	if len(args) == 0 {
		org, err := ui.SelectOrganization(octx.Organizations())
		if err != nil {
			return err
		}
		octx.SetCurrent(org)
		if err := config.SetOrganization(org.Slug); err != nil {
			return err
		}
		fmt.Printf("Switched to organization: %s\n", ui.NameStyle.Render(org.Name))
		return nil
	}

	org, err := octx.Select(args[0])
	if err != nil {
		fmt.Printf("Organization %q not found.\n\n", args[0])
		list := octx.Organizations()
		if len(list) == 0 {
			fmt.Println("You don't belong to any organization. Create one with:")
			fmt.Println("  mxl orgs create <name>")
			return nil
		}
		fmt.Println("Available organizations:")
		current := config.GetSavedOrganization()
		for _, o := range list {
			marker := "  "
			if o.Slug == current {
				marker = "* "
			}
			fmt.Printf("  %s%s\n", marker, o.Slug)
		}
		return nil
	}

	if err := config.SetOrganization(org.Slug); err != nil {
		return err
	}

	fmt.Printf("Switched to organization: %s\n", ui.NameStyle.Render(org.Name))
	fmt.Printf("  Slug: %s\n", org.Slug)
	fmt.Printf("  Role: %s\n", org.Role)
	return nil
}
