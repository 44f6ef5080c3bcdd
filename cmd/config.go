// Copyright © 2026 The panelctl authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/panelctl/panelctl/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or get config",
	Long:  `Create or get the panel server config used by this CLI`,
}

var configCmdGet = &cobra.Command{
	Use:   "get",
	Short: "Print the effective config",
	Long:  `Print the config after merging the config file, PANELCTL_* env vars and flags`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := config.Print(cfg)
		if err != nil {
			return fmt.Errorf("Could not render config: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

var configCmdSet = &cobra.Command{
	Use:   "set",
	Short: "Create a new config",
	Long:  `Create a new config that can be used to reach the panel server`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configCmdSetRun(os.Stdin, os.Stdout, cfgFile)
	},
}

// configCmdSetRun prompts for the server settings, keeping the current
// value when an answer is left empty, and writes the result to loc.
func configCmdSetRun(in io.Reader, out io.Writer, loc string) error {
	zap.S().Debug("==========Running set config==========")

	var update config.Config
	if !noPrompt {
		p := newPrompter(in, out)

		env, err := p.ask(fmt.Sprintf("Environment [%s]: ", cfg.Environment))
		if err != nil {
			return err
		}
		update.Environment = env

		current, _ := cfg.ResolveAPIURL()
		apiURL, err := p.ask(fmt.Sprintf("Panel API URL [%s]: ", current))
		if err != nil {
			return err
		}
		if apiURL != current {
			update.APIURL = apiURL
		}
	}

	merged, err := config.Merge(cfg, update)
	if err != nil {
		return err
	}
	if err := config.StoreConfig(merged, loc); err != nil {
		zap.S().Errorf("Failed to store config: %s", err.Error())
		return err
	}
	cfg = merged
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCmdGet)
	configCmd.AddCommand(configCmdSet)
}
