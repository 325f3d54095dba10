package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/isoworld/internal/registry"
	"github.com/vovakirdan/isoworld/internal/scene"
	"github.com/vovakirdan/isoworld/internal/storage"
)

var (
	flagLimit   int
	flagInspect int64
	flagClear   bool
)

var runsCmd = &cobra.Command{
	Use:   "runs <scene>",
	Short: "Show recorded runs and scores for a scene",
	Long: `Display the most recent simulation runs and the top scores for a scene.
With --inspect, decode the stored snapshot of one run.
With --clear, delete every saved score for the scene.

Examples:
  isoworld runs sandbox
  isoworld runs sandbox --limit 5
  isoworld runs sandbox --inspect 3
  isoworld runs courtyard --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs and scores to show")
	runsCmd.Flags().Int64Var(&flagInspect, "inspect", 0, "Decode the snapshot of the given run ID")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all saved scores for the scene")
}

func runRuns(_ *cobra.Command, args []string) {
	sceneID := args[0]
	requireScene(sceneID)

	info, _ := registry.Lookup(sceneID)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagInspect > 0 {
		inspectRun(store, flagInspect)
		return
	}
	if flagClear {
		if err := store.ClearScores(sceneID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared scores for %s.\n", info.Title)
		return
	}

	runs, err := store.RecentRuns(sceneID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}
	scores, err := store.TopScores(sceneID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("Runs - %s\n", info.Title)
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Printf("Run 'isoworld sim %s --record' to record one.\n", sceneID)
	} else {
		fmt.Printf("  %-5s  %-7s  %-9s  %-5s  %-16s  %s\n", "Run", "Frames", "Outcome", "Score", "Hash", "Date")
		fmt.Printf("  %-5s  %-7s  %-9s  %-5s  %-16s  %s\n", "---", "------", "-------", "-----", "----", "----")
		for _, r := range runs {
			fmt.Printf("  %-5d  %-7d  %-9s  %-5d  %016x  %s\n",
				r.ID, r.Frames, r.Outcome, r.Score, r.Hash, r.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	fmt.Println()
	fmt.Println("High Scores")
	if len(scores) == 0 {
		fmt.Println("  none yet")
	}
	for i, s := range scores {
		fmt.Printf("  %-4d  %-8d  %s\n", i+1, s.Score, s.CreatedAt.Format("2006-01-02 15:04"))
	}

	if st, err := store.Stats(sceneID); err == nil && st.Plays > 0 {
		fmt.Println()
		fmt.Printf("Best: %d  Average: %.1f  Plays: %d\n", st.HighScore, st.AvgScore, st.Plays)
	}
}

func inspectRun(store *storage.Store, id int64) {
	run, ok, err := store.RunByID(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no run #%d\n", id)
		os.Exit(1)
	}

	snap, err := scene.DecodeSnapshot(run.Snapshot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run #%d - %s, %d frames, %s, seed %d\n", run.ID, run.SceneID, run.Frames, run.Outcome, snap.Seed)
	if snap.Hash() != run.Hash {
		fmt.Println("Warning: snapshot hash does not match the recorded hash")
	}
	fmt.Println()
	fmt.Printf("  %-4s  %-14s  %-9s  %-24s  %s\n", "ID", "Name", "Mode", "Position", "Velocity")
	for _, o := range snap.Objects {
		fmt.Printf("  %-4d  %-14s  %-9s  %-24s  %s\n", o.ID, o.Name, o.Mode, fmtVec(o.Position), fmtVec(o.Velocity))
	}
}
