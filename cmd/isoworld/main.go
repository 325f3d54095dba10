// isoworld plays and simulates isometric box-physics scenes in the terminal.
//
// Usage:
//
//	isoworld list               - List available scenes
//	isoworld play <scene>       - Play a scene
//	isoworld menu               - Pick scenes interactively
//	isoworld sim <scene>        - Run a scene headless and print the result
//	isoworld runs <scene>       - Show recorded runs and scores for a scene
//	isoworld board              - Browse recorded runs in the terminal UI
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed
//	--db <path>           - Set database path (default: ~/.isoworld/isoworld.db)
//	--config <path>       - Engine config YAML
//	--difficulty <preset> - Difficulty preset: easy, normal, hard, fixed
//	--scenes <dir>        - Extra directory of scene YAML files
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/isoworld/internal/config"
	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/logging"
	"github.com/vovakirdan/isoworld/internal/scene"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagScenes     string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "isoworld",
	Short: "isoworld - box physics scenes in your terminal",
	Long: `isoworld runs small isometric scenes on a continuous collision and
physics engine. Scenes can be played in the terminal or simulated headless.

Available commands:
  list     - Show all available scenes
  play     - Play a specific scene
  menu     - Interactive scene picker
  sim      - Headless simulation
  runs     - Recorded runs and scores
  board    - Runs board in the terminal UI

Examples:
  isoworld list
  isoworld play courtyard
  isoworld sim sandbox --frames 600 --record
  isoworld runs sandbox`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Seed for guard and platform start directions (0 = as authored, play uses the clock)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.isoworld/isoworld.db", "Path to scores and runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagScenes, "scenes", "", "Directory with extra scene YAML files")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (default from config)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(boardCmd)
}

// setup applies the global flags to the scene package before any command
// creates a scene.
func setup(_ *cobra.Command, _ []string) error {
	switch flagDifficulty {
	case "", "easy", "normal", "hard", "fixed":
	default:
		return fmt.Errorf("unknown difficulty %q", flagDifficulty)
	}
	scene.SetConfigPath(flagConfig)
	scene.SetDifficultyPreset(flagDifficulty)

	if flagScenes != "" {
		if err := scene.RegisterDir(flagScenes); err != nil {
			return err
		}
	}
	return nil
}

// engineConfig loads the engine config named by --config.
func engineConfig() config.EngineConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", err)
		return config.DefaultEngineConfig()
	}
	return cfg
}

// logLevel returns the --log-level flag or the configured level.
func logLevel(cfg config.EngineConfig) string {
	if flagLogLevel != "" {
		return flagLogLevel
	}
	return cfg.Logging.Level
}

// consoleLogger logs to stderr for headless commands.
func consoleLogger() *log.Logger {
	l := logging.New("isoworld", logLevel(engineConfig()), os.Stderr)
	scene.SetLogger(l)
	return l
}

// fileLogger logs to the configured file while the TUI owns the terminal.
func fileLogger() (*log.Logger, io.Closer) {
	cfg := engineConfig()
	cfg.Logging.Level = logLevel(cfg)
	l, closer, err := logging.OpenFile("isoworld", cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; logging disabled\n", err)
		l, closer = logging.Discard(), io.NopCloser(nil)
	}
	scene.SetLogger(l)
	return l, closer
}

// runtimeConfig builds the runtime config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// requireScene exits with a hint when the scene is not registered.
func requireScene(id string) {
	if !sceneExists(id) {
		fmt.Fprintf(os.Stderr, "Error: unknown scene %q\n", id)
		fmt.Fprintln(os.Stderr, "Run 'isoworld list' to see available scenes.")
		os.Exit(1)
	}
}
