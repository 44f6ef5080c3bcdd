// Copyright © 2026 The panelctl authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/panelctl/panelctl/pkg/color"
	"github.com/panelctl/panelctl/pkg/events"
	"github.com/panelctl/panelctl/pkg/session"
	"github.com/panelctl/panelctl/pkg/util"
	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("Not logged in, run `panelctl login`")

var watchSession bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the current session",
	Long:  "Shows which server panelctl talks to and whether a session token is stored. With --watch, follows session changes made by other panelctl processes.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		loggedIn, err := renderDashboard(os.Stdout, a)
		if err != nil {
			return err
		}
		if watchSession {
			return watchDashboard(cmd.Context(), a, os.Stdout)
		}
		if !loggedIn {
			return errNotLoggedIn
		}
		return nil
	},
}

// renderDashboard prints the dashboard view and reports whether a token is
// stored.
func renderDashboard(out io.Writer, a *app) (bool, error) {
	token, ok, err := a.store.Get(util.TokenKey)
	if err != nil {
		return false, err
	}

	fmt.Fprintln(out, "Dashboard")
	fmt.Fprintf(out, "  Server:  %s\n", a.apiURL)
	if !ok || token == "" {
		fmt.Fprintf(out, "  Session: %s\n", color.Red("none"))
		return false, nil
	}
	fmt.Fprintf(out, "  Session: %s (token %s)\n", color.Green("active"), util.MaskToken(token))
	return true, nil
}

// watchDashboard prints every session change until ctx is done.
func watchDashboard(ctx context.Context, a *app, out io.Writer) error {
	fs, ok := a.store.(*session.FileStore)
	if !ok {
		return errors.New("watching needs a file backed session store")
	}

	unsubscribe := fs.Subscribe(func(ctx context.Context, ev events.Event) error {
		if ev.Key != util.TokenKey {
			return nil
		}
		if ev.Deleted {
			fmt.Fprintf(out, "%s session ended (%s)\n", color.Yellow("!"), ev.Source)
			return nil
		}
		fmt.Fprintf(out, "%s session started (token %s, %s)\n", color.Green("✓"), util.MaskToken(ev.Value), ev.Source)
		return nil
	})
	defer unsubscribe()

	fmt.Fprintln(out, "Watching "+fs.Path()+", press Ctrl-C to stop")
	return fs.Watch(ctx, nil)
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().BoolVarP(&watchSession, "watch", "w", false, "follow session changes")
}
