// Package config loads the game configuration file. Everything that the
// game used to hard-code per player name — grade levels, visible leveling
// tracks, the minigame command table — lives here as ordinary data with
// lookup-with-default behavior.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full game configuration.
type Config struct {
	// WordsFile is the path to the vocabulary JSON file.
	WordsFile string `yaml:"words_file"`

	// DBPath overrides the player store location. Empty means the
	// default XDG path.
	DBPath string `yaml:"db_path"`

	// DefaultGrade is the arithmetic grade for players not listed in
	// Grades.
	DefaultGrade int `yaml:"default_grade"`

	// Grades maps player IDs (case-insensitive) to arithmetic grade
	// levels.
	Grades map[string]int `yaml:"grades"`

	// Tracks maps player IDs to the leveling tracks visible to them.
	// Players not listed see all tracks.
	Tracks map[string][]string `yaml:"tracks"`

	Bonus BonusConfig `yaml:"bonus"`
}

// BonusConfig controls the bonus minigame flow.
type BonusConfig struct {
	// Threshold is the vocabulary score at which a bonus game is offered.
	Threshold int `yaml:"threshold"`

	// Cap is the maximum bonus applied from a single game, whatever the
	// game reports.
	Cap int `yaml:"cap"`

	// TimeoutSeconds bounds how long a minigame process may run.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Games maps game IDs to the argv used to launch them.
	Games map[string][]string `yaml:"games"`
}

// Default returns the stock configuration. Bonus constants match the
// original deployment: offer at 30 points, cap at 15.
func Default() Config {
	return Config{
		WordsFile:    "words.json",
		DefaultGrade: 5,
		Grades:       map[string]int{},
		Tracks:       map[string][]string{},
		Bonus: BonusConfig{
			Threshold:      30,
			Cap:            15,
			TimeoutSeconds: 300,
			Games: map[string][]string{
				"bricks":  {"python3", "bricks.py"},
				"dino":    {"python3", "dino_game.py"},
				"gorilla": {"python3", "gorilla_game.py"},
			},
		},
	}
}

// Load reads the YAML config at path, layered over the defaults.
// A missing file is not an error: the defaults are returned unchanged.
// A file that exists but does not parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if cfg.DefaultGrade <= 0 {
		cfg.DefaultGrade = 5
	}
	if cfg.Bonus.Cap <= 0 {
		cfg.Bonus.Cap = 15
	}
	if cfg.Bonus.Threshold <= 0 {
		cfg.Bonus.Threshold = 30
	}

	return cfg, nil
}

// GradeFor returns the arithmetic grade for a player, defaulting for
// unknown players.
func (c Config) GradeFor(playerID string) int {
	if g, ok := c.Grades[normalize(playerID)]; ok && g > 0 {
		return g
	}
	return c.DefaultGrade
}

// VisibleTracks returns the leveling track names visible to a player.
// Players with no entry see every track; trackNames is the full set in
// display order.
func (c Config) VisibleTracks(playerID string, trackNames []string) []string {
	visible, ok := c.Tracks[normalize(playerID)]
	if !ok {
		return trackNames
	}

	allowed := make(map[string]bool, len(visible))
	for _, name := range visible {
		allowed[name] = true
	}

	var out []string
	for _, name := range trackNames {
		if allowed[name] {
			out = append(out, name)
		}
	}
	return out
}

// GameTimeout returns the minigame timeout as a duration.
func (c Config) GameTimeout() time.Duration {
	if c.Bonus.TimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Bonus.TimeoutSeconds) * time.Second
}

func normalize(playerID string) string {
	return strings.ToLower(strings.TrimSpace(playerID))
}
