// Copyright © 2026 The panelctl authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/panelctl/panelctl/pkg/color"
	"github.com/panelctl/panelctl/pkg/telemetry"
	"github.com/panelctl/panelctl/pkg/util"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return runLogout(cmd.Context(), a, os.Stdin, os.Stdout)
	},
}

func runLogout(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	if _, ok, err := a.store.Get(util.TokenKey); err != nil {
		return err
	} else if !ok {
		fmt.Fprintln(out, "Not logged in")
		return nil
	}

	if !noPrompt {
		answer, err := util.AskBool(in, out, "Log out of %s?", a.apiURL)
		if err != nil {
			return err
		}
		if !answer {
			fmt.Fprintln(out, "Stopping logout")
			return nil
		}
	}

	if err := a.store.Delete(ctx, util.TokenKey); err != nil {
		return err
	}
	trackLogin(a, telemetry.EventLogout, "", "")
	fmt.Fprintln(out, color.OK("Logged out"))
	return nil
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
