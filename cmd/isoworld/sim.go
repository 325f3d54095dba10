package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/isoworld/internal/core"
	"github.com/vovakirdan/isoworld/internal/registry"
	"github.com/vovakirdan/isoworld/internal/scene"
	"github.com/vovakirdan/isoworld/internal/storage"
)

var (
	flagFrames  int
	flagScript  string
	flagRecord  bool
	flagDump    string
	flagObjects bool
)

var simCmd = &cobra.Command{
	Use:   "sim <scene>",
	Short: "Run a scene headless",
	Long: `Simulate a scene without a terminal UI and print the final state.

The run stops after --frames ticks or as soon as the scene ends. Input can be
scripted with --script using steps like "right*30 right+jump up*10".

Examples:
  isoworld sim sandbox
  isoworld sim courtyard --frames 900 --script "up*120 right*60"
  isoworld sim lift --record
  isoworld sim lift --dump lift.msgpack`,
	Args: cobra.ExactArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagFrames, "frames", 600, "Maximum number of ticks")
	simCmd.Flags().StringVar(&flagScript, "script", "", "Scripted input")
	simCmd.Flags().BoolVar(&flagRecord, "record", false, "Save the run to the database")
	simCmd.Flags().StringVar(&flagDump, "dump", "", "Write the final msgpack snapshot to a file")
	simCmd.Flags().BoolVar(&flagObjects, "objects", false, "Print every object in the final state")
}

func runSim(_ *cobra.Command, args []string) {
	sceneID := args[0]
	requireScene(sceneID)
	logger := consoleLogger()

	script, err := scene.ParseScript(flagScript)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	created, err := registry.Create(sceneID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating scene: %v\n", err)
		os.Exit(1)
	}
	game, ok := created.(*scene.Game)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: %q cannot be simulated headless\n", sceneID)
		os.Exit(1)
	}

	// Headless runs use a fixed virtual screen so results do not depend on
	// the terminal.
	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	game.Reset(cfg)

	start := time.Now()
	frames := 0
	contacts := 0
	for frames < flagFrames && !game.State().GameOver {
		res := game.Step(script.Frame(frames))
		contacts += res.Contacts
		frames++
	}
	elapsed := time.Since(start)

	snap := game.Snapshot()
	logger.Info("simulation finished", "scene", sceneID, "frames", frames, "elapsed", elapsed, "contacts", contacts)

	fmt.Printf("Scene:    %s\n", game.Title())
	fmt.Printf("Seed:     %d\n", snap.Seed)
	fmt.Printf("Frames:   %d (%.2fs simulated)\n", frames, float64(frames)*cfg.StepSeconds())
	fmt.Printf("State:    %s\n", snap.State)
	if snap.Cause != "" {
		fmt.Printf("Cause:    %s\n", snap.Cause)
	}
	fmt.Printf("Score:    %d\n", snap.Score)
	fmt.Printf("Contacts: %d\n", contacts)
	fmt.Printf("Hash:     %016x\n", snap.Hash())

	if flagObjects {
		fmt.Println()
		fmt.Printf("  %-4s  %-14s  %-9s  %-24s  %s\n", "ID", "Name", "Mode", "Position", "Velocity")
		for _, o := range snap.Objects {
			fmt.Printf("  %-4d  %-14s  %-9s  %-24s  %s\n", o.ID, o.Name, o.Mode, fmtVec(o.Position), fmtVec(o.Velocity))
		}
	}

	var data []byte
	if flagDump != "" || flagRecord {
		data, err = snap.Encode()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if flagDump != "" {
		if err := os.WriteFile(flagDump, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Snapshot: %s (%d bytes)\n", flagDump, len(data))
	}

	if flagRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		id, err := store.SaveRun(storage.Run{
			SceneID:  sceneID,
			Frames:   frames,
			Score:    snap.Score,
			Outcome:  snap.State,
			Cause:    snap.Cause,
			Hash:     snap.Hash(),
			Snapshot: data,
			Elapsed:  elapsed,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Recorded: run #%d\n", id)
	}
}

func fmtVec(v [3]float64) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
}
