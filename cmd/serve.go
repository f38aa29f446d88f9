/*
Copyright (c) 2026 moyaru <rbffo@icloud.com>
*/

package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/MOYARU/posture/internal/api"
	"github.com/MOYARU/posture/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scanner as an HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := log.New(os.Stderr, "posture-api ", log.LstdFlags)
		if cfg.Server.ScannerKey == "" {
			logger.Println("warning: server.scanner_key is not configured; every request will be rejected")
		}

		return api.NewServer(cfg, logger).ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
