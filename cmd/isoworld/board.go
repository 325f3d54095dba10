package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/isoworld/internal/platform/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board [scene]",
	Short: "Browse recorded runs in the terminal UI",
	Long: `Opens the runs board. Tab and Shift+Tab switch scenes.

Examples:
  isoworld board
  isoworld board sandbox`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBoard,
}

func runBoard(_ *cobra.Command, args []string) {
	sceneID := ""
	if len(args) == 1 {
		sceneID = args[0]
		requireScene(sceneID)
	}

	logger, closer := fileLogger()
	defer closer.Close()

	store := openStore(logger)
	if store == nil {
		os.Exit(1)
	}
	defer store.Close()

	cfg := runtimeConfig()
	if _, err := tui.RunBoard(store, sceneID, cfg.ScreenW, cfg.ScreenH); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
