// Copyright © 2026 The panelctl authors

package cmd

import (
	"fmt"

	"github.com/panelctl/panelctl/pkg/color"
	"github.com/panelctl/panelctl/pkg/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Current version of CLI being used",
	Long:  "Gives the current panelctl version",
	Run: func(cmd *cobra.Command, args []string) {
		zap.S().Debug("Version called")
		fmt.Println("panelctl version: " + color.Green(util.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
