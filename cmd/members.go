package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matrixlogger/mxl/internal/ui"
	"github.com/matrixlogger/mxl/pkg/types"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage organization members and invitations",
}

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members and pending invitations",
	RunE:  runMembersList,
}

var membersInviteCmd = &cobra.Command{
	Use:   "invite <email>",
	Short: "Invite a user to the current organization",
	Long: `Invite a user by email. Roles: owner, admin, member, viewer.

Examples:
  mxl orgs members invite dev@example.com
  mxl orgs members invite lead@example.com --role admin`,
	Args: cobra.ExactArgs(1),
	RunE: runMembersInvite,
}

var membersSetRoleCmd = &cobra.Command{
	Use:   "set-role <member-id> <role>",
	Short: "Change a member's role",
	Args:  cobra.ExactArgs(2),
	RunE:  runMembersSetRole,
}

var membersRemoveCmd = &cobra.Command{
	Use:     "remove <member-id>",
	Short:   "Remove a member or revoke an invitation",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"rm"},
	RunE:    runMembersRemove,
}

var inviteRole string

func init() {
	orgsCmd.AddCommand(membersCmd)
	membersCmd.AddCommand(membersListCmd)
	membersCmd.AddCommand(membersInviteCmd)
	membersCmd.AddCommand(membersSetRoleCmd)
	membersCmd.AddCommand(membersRemoveCmd)

	membersInviteCmd.Flags().StringVar(&inviteRole, "role", "member", "Role for the invited user")
}

func runMembersList(cmd *cobra.Command, args []string) error {
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

	members, err := mgr.Client().ListMembers(cmd.Context(), org.ID)
	if err != nil {
		return handleAPIError(mgr, err)
	}

	fmt.Printf("Members of %s\n", ui.NameStyle.Render(org.Name))
	ui.PrintMemberTable(members)
	return nil
}

func runMembersInvite(cmd *cobra.Command, args []string) error {
	role, err := types.ParseRole(inviteRole)
	if err != nil {
		return err
	}

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

	member, err := mgr.Client().InviteMember(cmd.Context(), org.ID, args[0], role)
	if err != nil {
		return handleAPIError(mgr, err)
	}

	fmt.Printf("Invited %s to %s as %s\n", args[0], org.Name, member.Role)
	return nil
}

func runMembersSetRole(cmd *cobra.Command, args []string) error {
	role, err := types.ParseRole(args[1])
	if err != nil {
		return err
	}

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

	member, err := mgr.Client().UpdateMemberRole(cmd.Context(), org.ID, args[0], role)
	if err != nil {
		return handleAPIError(mgr, err)
	}

	fmt.Printf("Member %s is now %s\n", member.User.Email, member.Role)
	return nil
}

func runMembersRemove(cmd *cobra.Command, args []string) error {
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

	if err := mgr.Client().RemoveMember(cmd.Context(), org.ID, args[0]); err != nil {
		return handleAPIError(mgr, err)
	}

	fmt.Printf("Removed member %s from %s\n", args[0], org.Name)
	return nil
}
