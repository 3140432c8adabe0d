/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/recstore/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a recstore configuration file",
	Long: `Create a configuration file with default settings and a generated API key.

Examples:
  recstore init
  recstore init --config ./recstore.yaml --file ./data/countries.txt --print-key`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataFile, _ := cmd.Flags().GetString("file")
		force, _ := cmd.Flags().GetBool("force")
		printKey, _ := cmd.Flags().GetBool("print-key")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		created, err := config.BootstrapConfig(configPath, dataFile)
		if err != nil {
			return fmt.Errorf("error bootstrapping config: %w", err)
		}
		logger.Info("configuration created", "path", configPath, "data_file", created.DataFile)

		cmd.Printf("✅ Configuration created at %s\n", configPath)
		cmd.Printf("Record file: %s\n", created.DataFile)
		cmd.Printf("Snapshot directory: %s\n", created.SnapshotDir)
		if printKey {
			cmd.Printf("API key: %s\n", created.Security.APIKey)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")
}
