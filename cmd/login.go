// Copyright © 2026 The panelctl authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/panelctl/panelctl/pkg/auth"
	"github.com/panelctl/panelctl/pkg/color"
	"github.com/panelctl/panelctl/pkg/events"
	"github.com/panelctl/panelctl/pkg/login"
	"github.com/panelctl/panelctl/pkg/navigate"
	"github.com/panelctl/panelctl/pkg/telemetry"
	"github.com/panelctl/panelctl/pkg/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type loginOptions struct {
	username      string
	passwordStdin bool
}

var loginOpts loginOptions

// loginCmd signs in and lands on the dashboard view.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the panel server",
	Long: `Prompts for a username and password, signs in to the panel server and
stores the returned token for later commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		return runLogin(cmd.Context(), a, os.Stdin, os.Stdout, loginOpts, cmd.Flags().Changed("username"))
	},
}

func runLogin(ctx context.Context, a *app, in io.Reader, out io.Writer, opts loginOptions, usernameSet bool) error {
	p := newPrompter(in, out)
	form := login.NewForm()

	if usernameSet {
		form.SetUsername(opts.username)
	} else {
		if noPrompt {
			return errors.New("--username is required with --no-prompt")
		}
		username, err := p.ask("Username: ")
		if err != nil {
			return err
		}
		form.SetUsername(username)
	}

	var password string
	var err error
	if opts.passwordStdin {
		password, err = p.line()
	} else if noPrompt {
		return errors.New("--password-stdin is required with --no-prompt")
	} else {
		password, err = p.secret("Password: ")
	}
	if err != nil {
		return err
	}
	form.SetPassword(password)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " Signing in to " + a.apiURL
	var stopOnce sync.Once
	stopSpinner := func() { stopOnce.Do(s.Stop) }

	// Observers of the session change, the way the rest of the panel
	// reacts to a new token.
	unsubscribe := a.store.Subscribe(func(ctx context.Context, ev events.Event) error {
		if ev.Key != util.TokenKey || ev.Deleted {
			return nil
		}
		stopSpinner()
		fmt.Fprintln(out, color.OK("Signed in as "+form.Username()))
		return nil
	})
	defer unsubscribe()

	router := navigate.NewRouter()
	router.Start(util.LoginRoute)
	router.Handle(util.DashboardRoute, func(ctx context.Context) error {
		stopSpinner()
		_, err := renderDashboard(out, a)
		return err
	})

	c := login.NewCoordinator(form, a.auth, a.store, router, login.WithNavigateDelay(a.cfg.NavigateDelay))

	s.Start()
	outcome, err := c.Submit(ctx)
	stopSpinner()

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(out, color.Warn("Login cancelled"))
		return errReported
	case err != nil:
		return err
	}

	if outcome.Status.State == login.Failed {
		fmt.Fprintln(out, color.Fail(form.Error()))
		trackLogin(a, telemetry.EventLoginFailed, form.Username(), auth.KindOf(outcome.Err).String())
		return errReported
	}

	trackLogin(a, telemetry.EventLoginSucceeded, form.Username(), "")
	return nil
}

func trackLogin(a *app, event, username, kind string) {
	props := map[string]interface{}{"environment": a.cfg.Environment}
	if kind != "" {
		props["kind"] = kind
	}
	if err := a.tracker.Track(event, username, props); err != nil {
		zap.S().Debugf("Unable to queue %s event: %s", event, err)
	}
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginOpts.username, "username", "u", "", "username, prompted for when not set")
	loginCmd.Flags().BoolVar(&loginOpts.passwordStdin, "password-stdin", false, "read the password from stdin")
}
