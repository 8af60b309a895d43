// Package config loads the game configuration from a YAML file and
// applies defaults and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Frontend names accepted by Game.Frontend.
const (
	FrontendWindow = "window"
	FrontendTUI    = "tui"
	FrontendScript = "script"
)

// Save backends accepted by Save.Backend.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config holds the application configuration.
type Config struct {
	Game     Game     `yaml:"game"`
	Gameplay Gameplay `yaml:"gameplay"`
	Audio    Audio    `yaml:"audio"`
	Assets   Assets   `yaml:"assets"`
	Content  Content  `yaml:"content"`
	Save     Save     `yaml:"save"`
	Log      Log      `yaml:"log"`
	Debug    Debug    `yaml:"debug"`
}

// Game selects the run-level options.
type Game struct {
	Seed      int64  `yaml:"seed"` // 0 seeds from the clock
	Character string `yaml:"character"`
	Frontend  string `yaml:"frontend"`
}

// Gameplay holds the tunable rule constants.
type Gameplay struct {
	EncounterChance     float64       `yaml:"encounter_chance"`
	EncounterInterval   time.Duration `yaml:"encounter_interval"`
	EscapeChance        float64       `yaml:"escape_chance"`
	InteractionCooldown time.Duration `yaml:"interaction_cooldown"`
	MessageTTLFrames    int           `yaml:"message_ttl_frames"`
	InvulnerableFrames  int           `yaml:"invulnerable_frames"`
	InventoryCapacity   int           `yaml:"inventory_capacity"`
	EnemyTurnDelay      int           `yaml:"enemy_turn_delay"` // frames
}

// Audio configures the sound service.
type Audio struct {
	Enabled     bool    `yaml:"enabled"`
	MusicVolume float64 `yaml:"music_volume"`
	SFXVolume   float64 `yaml:"sfx_volume"`
}

// Assets locates sprites, sounds and fonts.
type Assets struct {
	Dir   string   `yaml:"dir"`
	Fonts []string `yaml:"fonts"` // preferred font files, tried in order
}

// Content locates the Lua world content. An empty Dir uses the built-in content.
type Content struct {
	Dir string `yaml:"dir"`
}

// Save configures the snapshot store.
type Save struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
	RedisKey  string `yaml:"redis_key"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Debug toggles developer surfaces.
type Debug struct {
	ShowCombatZones bool `yaml:"show_combat_zones"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Game: Game{
			Frontend: FrontendWindow,
		},
		Gameplay: Gameplay{
			EncounterChance:     0.05,
			EncounterInterval:   10 * time.Second,
			EscapeChance:        0.5,
			InteractionCooldown: 500 * time.Millisecond,
			MessageTTLFrames:    180,
			InvulnerableFrames:  60,
			InventoryCapacity:   10,
			EnemyTurnDelay:      20,
		},
		Audio: Audio{
			Enabled:     true,
			MusicVolume: 0.7,
			SFXVolume:   0.8,
		},
		Assets: Assets{
			Dir: "assets",
		},
		Save: Save{
			Backend:  BackendFile,
			Path:     "antidote_save.json",
			RedisKey: "antidote:save",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
			File:   "antidote.log",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is true.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enum fields.
func (c *Config) Validate() error {
	var errs []error

	switch c.Game.Frontend {
	case FrontendWindow, FrontendTUI, FrontendScript:
	default:
		errs = append(errs, fmt.Errorf("game.frontend %q: want window, tui or script", c.Game.Frontend))
	}

	g := c.Gameplay
	if g.EncounterChance < 0 || g.EncounterChance > 1 {
		errs = append(errs, fmt.Errorf("gameplay.encounter_chance %v out of [0,1]", g.EncounterChance))
	}
	if g.EscapeChance < 0 || g.EscapeChance > 1 {
		errs = append(errs, fmt.Errorf("gameplay.escape_chance %v out of [0,1]", g.EscapeChance))
	}
	if g.EncounterInterval < 0 {
		errs = append(errs, errors.New("gameplay.encounter_interval must not be negative"))
	}
	if g.InteractionCooldown < 0 {
		errs = append(errs, errors.New("gameplay.interaction_cooldown must not be negative"))
	}
	if g.MessageTTLFrames <= 0 {
		errs = append(errs, errors.New("gameplay.message_ttl_frames must be positive"))
	}
	if g.InvulnerableFrames < 0 {
		errs = append(errs, errors.New("gameplay.invulnerable_frames must not be negative"))
	}
	if g.InventoryCapacity <= 0 {
		errs = append(errs, errors.New("gameplay.inventory_capacity must be positive"))
	}
	if g.EnemyTurnDelay < 0 {
		errs = append(errs, errors.New("gameplay.enemy_turn_delay must not be negative"))
	}

	if c.Audio.MusicVolume < 0 || c.Audio.MusicVolume > 1 {
		errs = append(errs, fmt.Errorf("audio.music_volume %v out of [0,1]", c.Audio.MusicVolume))
	}
	if c.Audio.SFXVolume < 0 || c.Audio.SFXVolume > 1 {
		errs = append(errs, fmt.Errorf("audio.sfx_volume %v out of [0,1]", c.Audio.SFXVolume))
	}

	switch c.Save.Backend {
	case BackendFile:
		if c.Save.Path == "" {
			errs = append(errs, errors.New("save.path is required for the file backend"))
		}
	case BackendRedis:
		if c.Save.RedisAddr == "" {
			errs = append(errs, errors.New("save.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("save.backend %q: want file or redis", c.Save.Backend))
	}

	return errors.Join(errs...)
}
