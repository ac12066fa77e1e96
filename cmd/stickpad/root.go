package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"stickpad/internal/board"
	"stickpad/internal/config"
	"stickpad/internal/input"
	"stickpad/internal/persist"
	"stickpad/internal/ui"
	"stickpad/pkg/logger"
)

var (
	flagStorageDir string
	flagGridSize   float64
	flagSnap       bool
)

// rootCmd runs the board in the terminal when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "stickpad",
	Short: "A pannable, zoomable sticky-notes board in your terminal",
	Long: `Stickpad is a sticky-notes canvas: drag notes around an infinite board,
zoom with ctrl+wheel, snap to a grid, and undo any layout change.
The board persists to a JSON file and can sync through a stickpad server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(false)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("storage-dir") {
			cfg.StorageDir = flagStorageDir
		}
		if cmd.Flags().Changed("grid") {
			cfg.GridSize = flagGridSize
		}
		if cmd.Flags().Changed("snap") {
			cfg.SnapToGrid = flagSnap
		}

		store := board.NewStore()
		session := board.NewSession(store, board.NewHistory(0))
		ctrl := input.NewController(store, input.Config{
			GridSize: cfg.GridSize,
			SnapGrid: cfg.SnapToGrid,
		})

		blob := persist.NewFileBlob(cfg.StorageDir)
		bridge := persist.NewBridge(store, blob, 0)
		loadErr := bridge.Load()

		p := tea.NewProgram(
			ui.New(session, ctrl, bridge),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)

		// Reload when another process rewrites the board file.
		watcher, werr := persist.WatchFile(blob.Path())
		if werr != nil {
			logger.Sugar.Warnw("file watching disabled", "error", werr)
		} else {
			defer watcher.Close()
			go func() {
				for range watcher.Events() {
					p.Send(ui.ReloadMsg{})
				}
			}()
		}

		if loadErr != nil {
			logger.Sugar.Warnw("starting with an empty board", "error", loadErr)
		}

		_, err = p.Run()
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fatal("stickpad", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagStorageDir, "storage-dir", "", "Directory holding the board file")
	rootCmd.Flags().Float64Var(&flagGridSize, "grid", 20, "Grid spacing in canvas units")
	rootCmd.Flags().BoolVar(&flagSnap, "snap", false, "Snap note positions and sizes to the grid")
}
