// Copyright © 2026 The panelctl authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/panelctl/panelctl/pkg/config"
	"github.com/panelctl/panelctl/pkg/log"
	"github.com/panelctl/panelctl/pkg/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string
var verbosity bool
var noPrompt bool

// cfg is the effective config, loaded before any subcommand runs.
var cfg config.Config
var v *viper.Viper

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "panelctl",
	Short: "CLI for the panel server",
	Long: `CLI tool for the panel server.
	Sign in, inspect the current session and manage the local config.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		v, err = config.NewViper(cfgFile)
		if err != nil {
			return err
		}
		if err := bindFlags(v, cmd.Flags()); err != nil {
			return err
		}
		if cfg, err = config.Load(v); err != nil {
			return err
		}

		// Initializing zap log with console and file logging support
		if err := log.ConfigureGlobalLog(verbosity, cfg.LogPath()); err != nil {
			return fmt.Errorf("log initialization failed: %s", err)
		}
		zap.S().Debugf("panelctl %s, config: %s", util.Version, cfgFile)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	log.Sync()

	exitOnError(zap.S(), err)
}

// exitOnError exits 1 for errors already shown to the user and logs the
// rest through Fatal, which logs and calls os.Exit.
func exitOnError(logger *zap.SugaredLogger, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, errReported) {
		os.Exit(1)
	}
	logger.Fatal(err)
}

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"environment": "environment",
	"api-url":     "api_url",
	"state-dir":   "state_dir",
	"no-tracking": "no_tracking",
	"insecure":    "insecure",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("unable to bind --%s: %w", name, err)
		}
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", util.PanelConfig, "config file")
	rootCmd.PersistentFlags().BoolVar(&verbosity, "verbose", false, "print verbose logs")
	rootCmd.PersistentFlags().BoolVar(&noPrompt, "no-prompt", false, "disable all user prompts")
	rootCmd.PersistentFlags().String("environment", config.BuildEnvironment, "server environment: production or development")
	rootCmd.PersistentFlags().String("api-url", "", "panel server URL, overrides --environment")
	rootCmd.PersistentFlags().String("state-dir", util.PanelDir, "directory for the session and logs")
	rootCmd.PersistentFlags().Bool("no-tracking", false, "do not send usage events")
	rootCmd.PersistentFlags().Bool("insecure", false, "skip TLS certificate verification")
}
