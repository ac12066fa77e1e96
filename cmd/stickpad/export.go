package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stickpad/internal/board"
	"stickpad/internal/config"
	"stickpad/internal/export"
	"stickpad/internal/persist"
)

var exportCmd = &cobra.Command{
	Use:   "export [output.png]",
	Short: "Render the saved board to a PNG image",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := "board.png"
		if len(args) == 1 {
			out = args[0]
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("storage-dir") {
			cfg.StorageDir = flagStorageDir
		}

		store := board.NewStore()
		bridge := persist.NewBridge(store, persist.NewFileBlob(cfg.StorageDir), 0)
		if err := bridge.Load(); err != nil {
			return err
		}

		if err := export.ToPNG(out, store.Notes()); err != nil {
			return err
		}
		fmt.Printf("exported %d notes to %s\n", store.Len(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
