package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matrixlogger/mxl/internal/config"
	"github.com/matrixlogger/mxl/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and organization status",
	Long: `Display the configured server, authentication status and the
current organization.

Examples:
  mxl status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("Current Status")
	fmt.Println(ui.MutedStyle.Render("─────────────────────────────────"))
	fmt.Println()
	fmt.Printf("Server:   %s\n", apiURL)

	mgr := newSessionManager()
	sess, err := mgr.Bootstrap(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Print("Auth:     ")
	if !sess.Authenticated {
		fmt.Println(ui.ErrorStyle.Render("✗ Not logged in"))
		fmt.Println()
		fmt.Println("To sign in:")
		fmt.Println("  mxl auth login")
		return nil
	}
	fmt.Println(ui.OKStyle.Render("✓ Logged in"))
	fmt.Printf("User:     %s <%s>\n", ui.NameStyle.Render(sess.User.Name), sess.User.Email)
	fmt.Println()

	octx, err := loadOrganizations(cmd.Context(), mgr.Client(), false)
	if err != nil {
		return handleAPIError(mgr, err)
	}

	org := octx.Current()
	if org == nil {
		fmt.Println("Org:      " + ui.MutedStyle.Render("(not set)"))
		return nil
	}
	fmt.Printf("Org:      %s (%s)\n", ui.NameStyle.Render(org.Name), org.Slug)
	fmt.Printf("Role:     %s\n", ui.RoleStyle(org.Role).Render(string(org.Role)))
	if saved := config.GetSavedOrganization(); saved != "" && saved != org.Slug {
		fmt.Printf("          %s\n", ui.MutedStyle.Render("(default is "+saved+")"))
	}
	return nil
}
