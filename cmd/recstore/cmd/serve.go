/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ssargent/recstore/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Load the record file and serve it over a JSON REST API.

Changes are kept in memory until POST /api/v1/save writes them back to the
record file.

Examples:
  recstore serve
  recstore serve --port 9000 --bind 0.0.0.0 --api-key mysecretkey`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}

		st, err := openStore(cfg.DataFile, cfg.Codec.Options())
		if err != nil {
			return err
		}
		if cfg.Security.APIKey == "" {
			logger.Warn("no API key configured, authentication disabled")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
		defer stop()

		return serve(ctx, st)
	},
}

func serve(ctx context.Context, st api.RecordStore) error {
	serverStarter := container.GetServerFactory().CreateServerStarter()
	return serverStarter.StartServer(ctx, st, api.ServerConfig{
		Port:     cfg.Port,
		Bind:     cfg.Bind,
		APIKey:   cfg.Security.APIKey,
		DataFile: cfg.DataFile,
		Codec:    cfg.Codec.Options(),
	}, logger)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key required in the X-API-Key header")
}
