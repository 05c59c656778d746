package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kbjakex/rollingball/internal/game"
)

// levelFile is the on-disk shape of a custom level.
type levelFile struct {
	Name         string       `yaml:"name"`
	Start        game.Point   `yaml:"start"`
	Goal         game.Point   `yaml:"goal"`
	Spikes       []game.Point `yaml:"spikes"`
	ParEquations int          `yaml:"par_equations"`
	ParSeconds   float64      `yaml:"par_seconds"`
}

// LoadLevel reads a single custom level from a yaml file.
func LoadLevel(path string) (*game.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lf levelFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	if lf.Name == "" {
		lf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := validateLevel(&lf, path); err != nil {
		return nil, err
	}

	lvl := &game.Level{
		Name:         lf.Name,
		Start:        lf.Start,
		Goal:         lf.Goal,
		ParEquations: lf.ParEquations,
		ParSeconds:   lf.ParSeconds,
	}
	for _, p := range lf.Spikes {
		lvl.Obstacles = append(lvl.Obstacles, game.Obstacle{Kind: game.KindSpike, Pos: p})
	}
	return lvl, nil
}

func validateLevel(lf *levelFile, path string) error {
	inBounds := func(p game.Point) bool {
		return p.X >= -game.LevelHalfWidth && p.X <= game.LevelHalfWidth &&
			p.Y >= -game.LevelHalfHeight && p.Y <= game.LevelHalfHeight
	}
	if !inBounds(lf.Start) || !inBounds(lf.Goal) {
		return fmt.Errorf("level %s: start/goal outside the level area", path)
	}
	for _, p := range lf.Spikes {
		if !inBounds(p) {
			return fmt.Errorf("level %s: spike (%v, %v) outside the level area", path, p.X, p.Y)
		}
	}
	return nil
}

// LoadLevels reads every *.yaml level in dir, sorted by file name. A
// missing directory is not an error; it simply yields no levels.
func LoadLevels(dir string) ([]*game.Level, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var levels []*game.Level
	for _, name := range names {
		lvl, err := LoadLevel(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}
