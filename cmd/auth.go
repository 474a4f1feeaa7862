package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matrixlogger/mxl/internal/api"
	"github.com/matrixlogger/mxl/internal/ui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your MatrixLogger session and account",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store a session token",
	Long: `Sign in with your MatrixLogger email and password. The returned
session token is stored under ~/.mxl and used by all other commands.

Examples:
  mxl auth login
  mxl auth login --email user@example.com`,
	RunE: runAuthLogin,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runAuthRegister,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session token",
	RunE:  runAuthLogout,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runAuthWhoami,
}

var authUpdateProfileCmd = &cobra.Command{
	Use:   "update-profile",
	Short: "Update your name or email",
	RunE:  runAuthUpdateProfile,
}

var authChangePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change your password",
	RunE:  runAuthChangePassword,
}

var authForgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset email",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthForgotPassword,
}

var authResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <token>",
	Short: "Set a new password using a reset token",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthResetPassword,
}

var (
	loginEmail  string
	regName     string
	regEmail    string
	profileName string
	profileMail string
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
	authCmd.AddCommand(authUpdateProfileCmd)
	authCmd.AddCommand(authChangePasswordCmd)
	authCmd.AddCommand(authForgotPasswordCmd)
	authCmd.AddCommand(authResetPasswordCmd)

	authLoginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	authRegisterCmd.Flags().StringVar(&regName, "name", "", "Display name")
	authRegisterCmd.Flags().StringVar(&regEmail, "email", "", "Account email")
	authUpdateProfileCmd.Flags().StringVar(&profileName, "name", "", "New display name")
	authUpdateProfileCmd.Flags().StringVar(&profileMail, "email", "", "New account email")
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	email := loginEmail
	if email == "" {
		var err error
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	mgr := newSessionManager()
	sess, err := mgr.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s <%s>\n", ui.NameStyle.Render(sess.User.Name), sess.User.Email)
	return nil
}

func runAuthRegister(cmd *cobra.Command, args []string) error {
	name := regName
	if name == "" {
		var err error
		name, err = promptLine("Name: ")
		if err != nil {
			return err
		}
	}
	email := regEmail
	if email == "" {
		var err error
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	mgr := newSessionManager()
	sess, err := mgr.Register(cmd.Context(), name, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Account created. Logged in as %s <%s>\n", ui.NameStyle.Render(sess.User.Name), sess.User.Email)
	fmt.Println()
	fmt.Println("Next, create an organization:")
	fmt.Println("  mxl orgs create <name>")
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	if err := newSessionManager().Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runAuthWhoami(cmd *cobra.Command, args []string) error {
	_, sess, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("User:   %s\n", ui.NameStyle.Render(sess.User.Name))
	fmt.Printf("Email:  %s\n", sess.User.Email)
	fmt.Printf("ID:     %s\n", ui.MutedStyle.Render(sess.User.ID))
	return nil
}

func runAuthUpdateProfile(cmd *cobra.Command, args []string) error {
	if profileName == "" && profileMail == "" {
		return fmt.Errorf("nothing to update; pass --name and/or --email")
	}

	mgr, sess, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	var update api.ProfileUpdate
	if profileName != "" {
		update.Name = &profileName
	}
	if profileMail != "" {
		update.Email = &profileMail
	}

	user, err := mgr.Client().UpdateProfile(cmd.Context(), update)
	if err != nil {
		return handleAPIError(mgr, err)
	}
	if user == nil {
		user = sess.User
	}
	fmt.Printf("Profile updated: %s <%s>\n", user.Name, user.Email)
	return nil
}

func runAuthChangePassword(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	current, err := promptPassword("Current password: ")
	if err != nil {
		return err
	}
	updated, err := promptPassword("New password: ")
	if err != nil {
		return err
	}

	if err := mgr.Client().ChangePassword(cmd.Context(), current, updated); err != nil {
		return handleAPIError(mgr, err)
	}
	fmt.Println("Password changed.")
	return nil
}

func runAuthForgotPassword(cmd *cobra.Command, args []string) error {
	mgr := newSessionManager()
	if err := mgr.Client().ForgotPassword(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("If an account exists for %s, a reset email is on its way.\n", args[0])
	return nil
}

func runAuthResetPassword(cmd *cobra.Command, args []string) error {
	password, err := promptPassword("New password: ")
	if err != nil {
		return err
	}
	mgr := newSessionManager()
	if err := mgr.Client().ResetPassword(cmd.Context(), args[0], password); err != nil {
		return err
	}
	fmt.Println("Password reset. Sign in with:")
	fmt.Println("  mxl auth login")
	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(data), nil
}
