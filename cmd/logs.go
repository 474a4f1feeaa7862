package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matrixlogger/mxl/internal/api"
	"github.com/matrixlogger/mxl/internal/logview"
)

var logsCmd = &cobra.Command{
	Use:   "logs <app>",
	Short: "Browse an app's log stream",
	Long: `Browse an app's log stream in an interactive viewer. Scrolling
near the bottom loads older pages automatically; entries are shown
newest first.

Examples:
  mxl logs web-api                # Interactive viewer
  mxl logs web-api --follow       # Tail the stream to stdout
  mxl logs web-api --limit 200    # Bigger pages
  mxl logs web-api --json         # One page as raw JSON`,
	Args: cobra.ExactArgs(1),
	RunE: runLogs,
}

var (
	logsLimit  int
	logsFollow bool
	logsJSON   bool
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVar(&logsLimit, "limit", api.DefaultLogLimit, "Page size")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Poll for new entries and print them")
	logsCmd.Flags().BoolVar(&logsJSON, "json", false, "Print one page as raw JSON and exit")
}

func runLogs(cmd *cobra.Command, args []string) error {
	mgr, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	app, err := resolveApp(cmd, mgr, args[0])
	if err != nil {
		return err
	}

	client := mgr.Client()
	paginator := logview.NewPaginator(client.FetchLogs, app.ID, logsLimit)

	switch {
	case logsJSON:
		page, err := client.FetchLogs(cmd.Context(), app.ID, "", logsLimit)
		if err != nil {
			return handleAPIError(mgr, err)
		}
		return json.NewEncoder(os.Stdout).Encode(page)

	case logsFollow:
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		follower := logview.NewFollower(paginator, os.Stdout, logview.DefaultPollInterval, true)
		if err := follower.Run(ctx); err != nil {
			if ctx.Err() == context.Canceled {
				return nil
			}
			return handleAPIError(mgr, err)
		}
		return nil

	default:
		if err := logview.Run(paginator, app.Name); err != nil {
			return err
		}
		// A viewer that never managed to load anything reports why.
		if paginator.State() == logview.StateError {
			return handleAPIError(mgr, paginator.Err())
		}
		fmt.Println()
		return nil
	}
}
