package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strconv"
	"strings"
	"time"

	"chainreaction/game"
	"chainreaction/searcher"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// AIvsAI is the mode in which each side may be configured separately.
const AIvsAI = "AI vs AI"

// EnvPrefix prefixes environment overrides, e.g. CHAIN_DIFFICULTY=Hard.
const EnvPrefix = "CHAIN"

// AI configures one computer player.
type AI struct {
	Type       string `mapstructure:"type"`
	Difficulty string `mapstructure:"difficulty"`
	Heuristic  string `mapstructure:"heuristic"`
}

// Config mirrors the JSON file the frontend writes next to the game state. SearchTime is given
// in seconds as a number ("searchTime": 5) or as a duration string ("searchTime": "1.5s").
type Config struct {
	Mode       string        `mapstructure:"mode"`
	AIType     string        `mapstructure:"aiType"`
	Difficulty string        `mapstructure:"difficulty"`
	Heuristic  string        `mapstructure:"heuristic"`
	Rows       int           `mapstructure:"rows"`
	Cols       int           `mapstructure:"cols"`
	SearchTime time.Duration `mapstructure:"searchTime"`
	MaxNodes   int           `mapstructure:"maxNodes"`
	RedAI      *AI           `mapstructure:"redAI"`
	BlueAI     *AI           `mapstructure:"blueAI"`
}

// Default is used when there is no config file.
func Default() *Config {
	return &Config{
		AIType:     "Smart",
		Difficulty: "Medium",
		Heuristic:  game.Combined.String(),
	}
}

// LoadEnv loads .env style files into the environment. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		err := godotenv.Load(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// Load reads the JSON config at path, applying CHAIN_ environment overrides. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults := Default()
	v.SetDefault("mode", "")
	v.SetDefault("aiType", defaults.AIType)
	v.SetDefault("difficulty", defaults.Difficulty)
	v.SetDefault("heuristic", defaults.Heuristic)
	v.SetDefault("rows", 0)
	v.SetDefault("cols", 0)
	v.SetDefault("searchTime", 0)
	v.SetDefault("maxNodes", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("json")
	err := v.ReadInConfig()
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Msgf("no config at %s, using defaults", path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsToDuration,
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsToDuration decodes durations from numbers of seconds, numeric strings such as an
// environment override, or duration strings.
func secondsToDuration(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case string:
		if seconds, err := strconv.ParseFloat(v, 64); err == nil {
			return time.Duration(seconds * float64(time.Second)), nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", v, err)
		}
		return d, nil
	}
	return data, nil
}

// AIFor returns the settings of the computer player for player. Per-side blocks are only used
// in AI vs AI mode when both are present.
func (c *Config) AIFor(player game.Player) AI {
	if c.Mode == AIvsAI && c.RedAI != nil && c.BlueAI != nil {
		if player == game.Red {
			return *c.RedAI
		}
		return *c.BlueAI
	}
	return AI{Type: c.AIType, Difficulty: c.Difficulty, Heuristic: c.Heuristic}
}

// Label names the configured AI type in saved snapshot labels. Only the top-level type is
// used, even in AI vs AI mode.
func (c *Config) Label() string {
	if c.AIType != "" {
		return c.AIType
	}
	return "Smart"
}

// Resolve builds the agent spec for player. "Random" selects the random agent, any other
// type the minimax agent; an unknown heuristic falls back to combined_v2.
func (c *Config) Resolve(player game.Player) searcher.Spec {
	ai := c.AIFor(player)

	kind := searcher.Smart
	if k, err := searcher.ParseKind(ai.Type); err == nil {
		kind = k
	} else if ai.Type != "" {
		log.Warn().Msgf("unknown AI type %q for %s, using Smart", ai.Type, player)
	}

	heuristic := game.Combined
	if ai.Heuristic != "" {
		h, err := game.ParseHeuristic(ai.Heuristic)
		if err != nil {
			log.Warn().Err(err).Msgf("using %s for %s", game.Combined, player)
		} else {
			heuristic = h
		}
	}

	return searcher.Spec{
		Kind:      kind,
		Depth:     searcher.DepthFor(ai.Difficulty),
		Heuristic: heuristic,
		Duration:  c.SearchTime,
		MaxNodes:  c.MaxNodes,
	}
}
