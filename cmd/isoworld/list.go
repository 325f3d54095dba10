package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/isoworld/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available scenes",
	Long:  `Shows the built-in scenes and any loaded with --scenes.`,
	Run:   runList,
}

func sceneExists(id string) bool {
	return registry.Exists(id)
}

func runList(cmd *cobra.Command, args []string) {
	scenes := registry.List()

	if len(scenes) == 0 {
		fmt.Println("No scenes available.")
		return
	}

	fmt.Println("Available scenes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, s := range scenes {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, "ID", "Title", "Description")
	fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, "--", "-----", "-----------")

	for _, s := range scenes {
		desc := s.Description
		if s.Source != registry.SourceBuiltin {
			desc += " [" + s.Source + "]"
		}
		fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, s.ID, s.Title, desc)
	}

	fmt.Println()
	fmt.Println("Run 'isoworld play <id>' to play a scene.")
}
