// Package levels provides level loading functionality for Gem Fusion Quest.
// This package depends on engine but engine does not depend on levels.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/levels/formats"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Level represents a complete, validated level definition.
type Level struct {
	engine.LevelConfig
	Metadata map[string]string
	FilePath string
}

// FileError reports a level file that failed to parse or validate.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Loader handles loading levels from a file system.
type Loader struct {
	fsys fs.FS
	Root string
}

// NewLoader creates a loader reading from a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{fsys: os.DirFS(root), Root: root}
}

// NewFSLoader creates a loader reading from any file system.
func NewFSLoader(fsys fs.FS, root string) *Loader {
	return &Loader{fsys: fsys, Root: root}
}

// Builtin returns a loader over the levels compiled into the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("levels: builtin: %v", err))
	}
	return NewFSLoader(sub, "builtin")
}

// LoadAll recursively scans and loads all level files.
// Returns levels sorted by ID for deterministic ordering. Any invalid file
// fails the whole load.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	seen := make(map[string]string)

	err := l.walk(func(p string) error {
		level, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		if prev, dup := seen[level.ID]; dup {
			return FileError{Path: p, Err: fmt.Errorf("duplicate level id %q (also in %s)", level.ID, prev)}
		}
		seen[level.ID] = p
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortLevels(levels)
	return levels, nil
}

// ValidateAll loads every level file and reports all failures instead of
// stopping at the first one.
func (l *Loader) ValidateAll() ([]Level, []FileError, error) {
	var levels []Level
	var problems []FileError

	err := l.walk(func(p string) error {
		level, err := l.LoadFile(p)
		if err != nil {
			var fe FileError
			if !errors.As(err, &fe) {
				fe = FileError{Path: p, Err: err}
			}
			problems = append(problems, fe)
			return nil
		}
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sortLevels(levels)
	return levels, problems, nil
}

// LoadFile loads and validates a single level file.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, FileError{Path: p, Err: fmt.Errorf("reading file: %w", err)}
	}

	ext := strings.ToLower(path.Ext(p))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, FileError{Path: p, Err: fmt.Errorf("parsing file: %w", err)}
	}
	if err := parsed.Config.Validate(); err != nil {
		return Level{}, FileError{Path: p, Err: err}
	}

	return Level{
		LevelConfig: parsed.Config,
		Metadata:    parsed.Metadata,
		FilePath:    path.Join(l.Root, p),
	}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// walk calls fn for every supported level file, in lexical order.
func (l *Loader) walk(fn func(p string) error) error {
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}
		return fn(p)
	})
	if err != nil {
		var fe FileError
		if errors.As(err, &fe) {
			return err
		}
		return fmt.Errorf("walking directory %s: %w", l.Root, err)
	}
	return nil
}

func sortLevels(levels []Level) {
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
