package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matrixlogger/mxl/internal/api"
	"github.com/matrixlogger/mxl/internal/config"
	"github.com/matrixlogger/mxl/internal/orgs"
	"github.com/matrixlogger/mxl/internal/session"
)

var (
	// Global flags
	apiURL  string
	orgFlag string
)

var errNotLoggedIn = errors.New("not logged in; run: mxl auth login")

var rootCmd = &cobra.Command{
	Use:   "mxl",
	Short: "MatrixLogger - command-line dashboard for your log streams",
	Long: `mxl is the command-line dashboard for MatrixLogger. It manages
organizations, member invitations and registered apps (log sources),
and browses each app's log stream in an interactive viewer.

Getting Started:
  mxl auth login             # Sign in to your MatrixLogger account
  mxl orgs create myteam     # Create your first organization
  mxl use myteam             # Make it the default organization

Everyday Commands:
  mxl apps list              # List apps in the current organization
  mxl apps create web-api    # Register a new log source
  mxl logs web-api           # Browse its log stream interactively
  mxl logs web-api --follow  # Tail the stream

Organization Commands:
  mxl orgs list              # List organizations you belong to
  mxl orgs members list      # List members and invitations
  mxl status                 # Show session and organization status`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "MatrixLogger API base URL")
	rootCmd.PersistentFlags().StringVarP(&orgFlag, "org", "o", "", "Organization slug to operate in")

	// Bind flags to viper
	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("org", rootCmd.PersistentFlags().Lookup("org"))
}

func initConfig() {
	// Read from environment variables
	viper.SetEnvPrefix("MXL")
	viper.AutomaticEnv()

	// Priority for the API URL: --api-url flag > MXL_API_URL env > config file > default
	if apiURL == "" {
		apiURL = viper.GetString("api_url")
	}
	if apiURL == "" {
		if cfg, err := config.LoadConfig(); err == nil && cfg.APIURL != "" {
			apiURL = cfg.APIURL
		}
	}
	if apiURL == "" {
		apiURL = config.DefaultAPIURL
	}

	// Priority for the organization: --org flag > MXL_ORG env > config file
	if orgFlag == "" {
		orgFlag = viper.GetString("org")
	}
	if orgFlag == "" {
		orgFlag = config.GetSavedOrganization()
	}
}

// newSessionManager wires the API client and credential store together.
func newSessionManager() *session.Manager {
	return session.NewManager(api.NewClient(apiURL), session.NewStore())
}

// requireSession bootstraps the stored token and fails with a login
// hint when it does not resolve to an authenticated user.
func requireSession(ctx context.Context) (*session.Manager, *session.Session, error) {
	mgr := newSessionManager()
	sess, err := mgr.Bootstrap(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !sess.Authenticated {
		return nil, nil, errNotLoggedIn
	}
	return mgr, sess, nil
}

// loadOrganizations refreshes the organization context for an
// authenticated client, honoring the --org flag and the saved default.
// onCreateFlow suppresses the empty-list redirect for the creation
// command itself.
func loadOrganizations(ctx context.Context, client *api.Client, onCreateFlow bool) (*orgs.Context, error) {
	octx := orgs.NewContext(client)
	octx.Preferred = orgFlag
	if err := octx.Refresh(ctx); err != nil {
		return nil, err
	}
	if octx.ShouldRedirect(onCreateFlow) {
		return nil, orgs.ErrNoOrganizations
	}
	if orgFlag != "" {
		if _, err := octx.Select(orgFlag); err != nil {
			return nil, fmt.Errorf("organization %q not found; run: mxl orgs list", orgFlag)
		}
	}
	return octx, nil
}

// handleAPIError converts auth failures into the login hint and clears
// a rejected token so the next command starts clean.
func handleAPIError(mgr *session.Manager, err error) error {
	if api.IsUnauthorized(err) {
		_ = mgr.Logout()
		return errNotLoggedIn
	}
	return err
}
