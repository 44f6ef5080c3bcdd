package util

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// ProductionURL is the panel server used by release builds.
	ProductionURL = "https://panel-server.vercel.app"
	// DevelopmentURL is the panel server started by the local dev stack.
	DevelopmentURL = "http://localhost:5001"

	// LoginPath is appended to the API URL for the login request.
	LoginPath = "/api/auth/login"

	// TokenKey is the session store key holding the auth token.
	TokenKey = "token"

	// DashboardRoute is where a successful login lands.
	DashboardRoute = "/dashboard"
	// LoginRoute is the login view itself.
	LoginRoute = "/login"

	EnvProduction  = "production"
	EnvDevelopment = "development"

	// EnvPrefix is prepended to every config key read from the environment.
	EnvPrefix = "PANELCTL"

	DefaultNavigateDelay = time.Duration(0)
)

var (
	homeDir, _ = os.UserHomeDir()

	// PanelDir is the base directory for config, logs and session state.
	PanelDir = filepath.Join(homeDir, ".panelctl")
	// PanelLogDir holds the JSON debug log.
	PanelLogDir = filepath.Join(PanelDir, "log")
	// PanelLog is the log file written on every invocation.
	PanelLog = filepath.Join(PanelLogDir, "panelctl.log")
	// PanelConfig is the default config file location.
	PanelConfig = filepath.Join(PanelDir, "config.yaml")
	// SessionFile is the default session store file name, relative to the state dir.
	SessionFile = "session.json"

	// Version is stamped at build time.
	Version = "panelctl-v0.1.0"
)
