package main

import (
	"github.com/spf13/cobra"

	"stickpad/internal/server"
	"stickpad/pkg/logger"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync backend (accounts, note storage, change feed)",
	RunE: func(cmd *cobra.Command, args []string) error {
		// JSON logs on stdout for the server; the TUI logs to stderr.
		logger.Init(true)
		return server.Run(flagAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Address to listen on")
	rootCmd.AddCommand(serveCmd)
}
