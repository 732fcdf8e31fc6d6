package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Loader reads levels from a directory tree.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped. Returns levels sorted by ID.
func (l *Loader) LoadAll() ([]Level, error) {
	return loadFS(os.DirFS(l.Root), ".", l.Root)
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("levels: reading %s: %w", path, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return Level{}, fmt.Errorf("levels: parsing %s: %w", path, err)
	}
	lvl.FilePath = path
	return lvl, nil
}

// Builtin returns the levels shipped with the binary, sorted by ID.
func Builtin() []Level {
	lvls, err := loadFS(builtinFS, "builtin", "")
	if err != nil {
		panic(fmt.Sprintf("levels: broken built-in levels: %v", err))
	}
	return lvls
}

// Load returns the levels in dir, or the built-in ones when dir is empty.
func Load(dir string) ([]Level, error) {
	if dir == "" {
		return Builtin(), nil
	}
	lvls, err := NewLoader(dir).LoadAll()
	if err != nil {
		return nil, err
	}
	if len(lvls) == 0 {
		return nil, fmt.Errorf("levels: no valid levels in %s", dir)
	}
	return lvls, nil
}

// Find returns the level with the given ID.
func Find(lvls []Level, id string) (Level, bool) {
	for _, lvl := range lvls {
		if lvl.ID == id {
			return lvl, true
		}
	}
	return Level{}, false
}

// Index returns the position of the level with the given ID, or -1.
func Index(lvls []Level, id string) int {
	for i, lvl := range lvls {
		if lvl.ID == id {
			return i
		}
	}
	return -1
}

// loadFS walks root inside fsys. base, when set, is joined to file names
// to record where a level came from on disk.
func loadFS(fsys fs.FS, root, base string) ([]Level, error) {
	var lvls []Level

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil
		}
		lvl, err := Parse(data)
		if err != nil {
			// Skip invalid files
			return nil
		}
		if base != "" {
			lvl.FilePath = filepath.Join(base, filepath.FromSlash(path))
		}
		lvls = append(lvls, lvl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("levels: walking %s: %w", root, err)
	}

	sort.Slice(lvls, func(i, j int) bool {
		return lvls[i].ID < lvls[j].ID
	})
	return lvls, nil
}

func isSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
