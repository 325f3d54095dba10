package scene

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed levels/*.yaml
var builtinFS embed.FS

// Loader reads scene files from a directory tree.
type Loader struct {
	fsys fs.FS
	root string
}

// NewLoader creates a loader over a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{fsys: os.DirFS(root), root: "."}
}

// BuiltinLoader returns a loader over the embedded scenes.
func BuiltinLoader() *Loader {
	return &Loader{fsys: builtinFS, root: "levels"}
}

// LoadAll loads every scene file under the root, sorted by ID.
// Invalid files are skipped.
func (l *Loader) LoadAll() ([]Definition, error) {
	var defs []Definition

	err := fs.WalkDir(l.fsys, l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
			return nil
		}

		def, err := l.LoadFile(path)
		if err != nil {
			return nil
		}
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scene: walking %s: %w", l.root, err)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].ID < defs[j].ID
	})
	return defs, nil
}

// LoadFile loads a single scene file relative to the loader root.
func (l *Loader) LoadFile(path string) (Definition, error) {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return Definition{}, fmt.Errorf("scene: reading %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	def.FilePath = path
	return def, nil
}

// LoadByID loads a specific scene by ID.
func (l *Loader) LoadByID(id string) (Definition, error) {
	defs, err := l.LoadAll()
	if err != nil {
		return Definition{}, err
	}
	for _, def := range defs {
		if def.ID == id {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("scene: not found: %s", id)
}

func isSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
