// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
	"gopkg.in/yaml.v3"
)

// ColorNames are the level-file names of gem colors, indexed by color.
var ColorNames = []string{"red", "green", "blue", "yellow", "purple", "orange"}

// ParseColor accepts a color name, its first letter, or a numeric index.
func ParseColor(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0 && n < len(ColorNames)
	}
	for i, name := range ColorNames {
		if s == name || (len(s) == 1 && s[0] == name[0]) {
			return i, true
		}
	}
	return engine.NoColor, false
}

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Size       YAMLSize          `yaml:"size"`
	Moves      int               `yaml:"moves"`
	GemTypes   int               `yaml:"gem_types"`
	Holes      []YAMLCell        `yaml:"holes,omitempty"`
	Blockers   []YAMLBlocker     `yaml:"blockers,omitempty"`
	Specials   []YAMLSpecial     `yaml:"specials,omitempty"`
	Objectives []YAMLObjective   `yaml:"objectives"`
	Stars      []int             `yaml:"stars"`
	Metadata   map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLCell is a coordinate; x is the column and y the row.
type YAMLCell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// YAMLBlocker places blockers at explicit cells and/or at random.
type YAMLBlocker struct {
	Type   string     `yaml:"type"`
	Layers int        `yaml:"layers,omitempty"`
	Cells  []YAMLCell `yaml:"cells,omitempty"`
	Count  int        `yaml:"count,omitempty"`
}

// YAMLSpecial places a special gem on the starting board.
type YAMLSpecial struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Kind  string `yaml:"kind"`
	Color string `yaml:"color,omitempty"`
}

// YAMLObjective is one win condition.
type YAMLObjective struct {
	Kind    string `yaml:"kind"`
	Target  int    `yaml:"target"`
	Color   string `yaml:"color,omitempty"`
	Blocker string `yaml:"blocker,omitempty"`
}

// Level represents a parsed level ready for use.
type Level struct {
	Config   engine.LevelConfig
	Metadata map[string]string
}

// ParseYAML parses a YAML level file. Unknown names are errors; range
// checks are left to engine.LevelConfig.Validate.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	cfg := engine.LevelConfig{
		ID:             yl.ID,
		Name:           yl.Name,
		Width:          yl.Size.W,
		Height:         yl.Size.H,
		Moves:          yl.Moves,
		GemTypes:       yl.GemTypes,
		StarThresholds: yl.Stars,
	}
	if cfg.ID == "" {
		return Level{}, fmt.Errorf("level has no id")
	}

	for _, h := range yl.Holes {
		cfg.Holes = append(cfg.Holes, h.cell())
	}

	for i, b := range yl.Blockers {
		typ, ok := engine.ParseBlockerType(b.Type)
		if !ok {
			return Level{}, fmt.Errorf("blocker %d: unknown type %q", i, b.Type)
		}
		layers := b.Layers
		if layers == 0 {
			layers = 1
		}
		bp := engine.BlockerPlacement{Type: typ, Layers: layers, Count: b.Count}
		for _, c := range b.Cells {
			bp.Cells = append(bp.Cells, c.cell())
		}
		cfg.Blockers = append(cfg.Blockers, bp)
	}

	for i, s := range yl.Specials {
		kind, ok := engine.ParseSpecial(s.Kind)
		if !ok {
			return Level{}, fmt.Errorf("special %d: unknown kind %q", i, s.Kind)
		}
		color := engine.NoColor
		if s.Color != "" {
			if color, ok = ParseColor(s.Color); !ok {
				return Level{}, fmt.Errorf("special %d: unknown color %q", i, s.Color)
			}
		}
		cfg.Specials = append(cfg.Specials, engine.SpecialPlacement{
			Cell:    engine.At(s.Y, s.X),
			Special: kind,
			Color:   color,
		})
	}

	for i, o := range yl.Objectives {
		obj, err := o.objective()
		if err != nil {
			return Level{}, fmt.Errorf("objective %d: %w", i, err)
		}
		cfg.Objectives = append(cfg.Objectives, obj)
	}

	return Level{Config: cfg, Metadata: yl.Metadata}, nil
}

func (c YAMLCell) cell() engine.Cell {
	return engine.At(c.Y, c.X)
}

func (o YAMLObjective) objective() (engine.Objective, error) {
	kind, ok := engine.ParseObjectiveKind(o.Kind)
	if !ok {
		return engine.Objective{}, fmt.Errorf("unknown kind %q", o.Kind)
	}
	obj := engine.Objective{Kind: kind, Target: o.Target}

	switch kind {
	case engine.ObjectiveCollect:
		color, ok := ParseColor(o.Color)
		if !ok {
			return engine.Objective{}, fmt.Errorf("unknown color %q", o.Color)
		}
		obj.Color = color
	case engine.ObjectiveClearBlockers:
		if o.Blocker == "" || o.Blocker == "any" {
			obj.AnyBlocker = true
			break
		}
		typ, ok := engine.ParseBlockerType(o.Blocker)
		if !ok {
			return engine.Objective{}, fmt.Errorf("unknown blocker %q", o.Blocker)
		}
		obj.BlockerType = typ
	}
	return obj, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
