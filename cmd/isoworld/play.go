package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/platform/tui"
	"github.com/vovakirdan/isoworld/internal/registry"
	"github.com/vovakirdan/isoworld/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <scene>",
	Short: "Play a scene",
	Long: `Start playing the specified scene.

Controls:
  WASD/Arrows - Walk
  Space       - Jump
  P           - Pause
  R           - Restart (after the run ends)
  Ctrl+S      - Screenshot to ~/.isoworld/screenshots
  Esc/Q       - Quit

Difficulty options scale guard patrol speed:
  easy   - Start slow, progresses to max
  normal - Start at 30%, progresses to max
  hard   - Start at 70%, progresses to max
  fixed  - No progression

Examples:
  isoworld play courtyard
  isoworld play lift --difficulty hard
  isoworld play sandbox --config ./engine.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick scenes interactively",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to play, Tab to browse runs.
After a run ends, you return to the menu.`,
	Run: runMenu,
}

// openStore opens the database, or returns nil with a warning.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		logger.Warn("database unavailable", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

func runPlay(cmd *cobra.Command, args []string) {
	sceneID := args[0]
	requireScene(sceneID)

	logger, closer := fileLogger()
	defer closer.Close()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	game, err := registry.Create(sceneID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating scene: %v\n", err)
		os.Exit(1)
	}

	logger.Info("play", "scene", sceneID, "fps", flagFPS, "difficulty", flagDifficulty)
	if err := tui.Run(game, store, runtimeConfig(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closer := fileLogger()
	defer closer.Close()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	for {
		res, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = res.Config

		switch {
		case res.Quit:
			return

		case res.WantsRuns:
			goBack, err := tui.RunBoard(store, "", cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if !goBack {
				return
			}

		default:
			if err := playOnce(res.SceneID, store, cfg, logger); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

func playOnce(sceneID string, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	game, err := registry.Create(sceneID)
	if err != nil {
		return err
	}
	if flagSeed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger.Info("play", "scene", sceneID)
	return tui.Run(game, store, cfg, logger)
}
