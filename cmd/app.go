// Copyright © 2026 The panelctl authors

package cmd

import (
	"errors"

	"github.com/panelctl/panelctl/pkg/auth"
	"github.com/panelctl/panelctl/pkg/config"
	"github.com/panelctl/panelctl/pkg/session"
	"github.com/panelctl/panelctl/pkg/telemetry"
)

// errReported means the user already saw what went wrong.
var errReported = errors.New("error already reported")

// app holds the collaborators a command needs, built from the config.
type app struct {
	cfg     config.Config
	apiURL  string
	store   session.Store
	auth    auth.Authenticator
	tracker telemetry.Tracker
}

func newApp(cfg config.Config) (*app, error) {
	apiURL, err := cfg.ResolveAPIURL()
	if err != nil {
		return nil, err
	}

	store, err := session.NewFileStore(cfg.SessionPath())
	if err != nil {
		return nil, err
	}

	client, err := auth.NewClient(auth.Options{
		APIURL:          apiURL,
		LoginPath:       cfg.LoginPath,
		WithCredentials: cfg.WithCredentials,
		Insecure:        cfg.Insecure,
		Timeout:         cfg.Timeout,
		RetryMax:        cfg.RetryMax,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		apiURL:  apiURL,
		store:   store,
		auth:    client,
		tracker: telemetry.NewTracker(apiURL, cfg.NoTracking),
	}, nil
}

func (a *app) Close() {
	a.tracker.Close()
}
