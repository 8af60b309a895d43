package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/nathoo/antidote/assets"
	"github.com/nathoo/antidote/audio"
	"github.com/nathoo/antidote/audio/mixer"
	"github.com/nathoo/antidote/cli"
	"github.com/nathoo/antidote/clock"
	"github.com/nathoo/antidote/config"
	"github.com/nathoo/antidote/engine"
	"github.com/nathoo/antidote/engine/save"
	"github.com/nathoo/antidote/loader"
	"github.com/nathoo/antidote/logging"
	"github.com/nathoo/antidote/render"
	"github.com/nathoo/antidote/tui"
	"github.com/nathoo/antidote/types"
	"github.com/nathoo/antidote/window"
)

const defaultConfig = "antidote.yaml"

var (
	configPath string
	seed       int64
	frontend   string
	scriptFile string
	character  string
	assetsDir  string
	contentDir string
	mute       bool
	trace      bool
)

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", defaultConfig, "YAML configuration file")
	f.Int64Var(&seed, "seed", 0, "RNG seed (0 seeds from the clock)")
	f.StringVar(&frontend, "frontend", "", "window, tui or script")
	f.StringVar(&scriptFile, "script", "", "key script to replay headless")
	f.StringVar(&character, "character", "", "preselected character id")
	f.StringVar(&assetsDir, "assets", "", "asset directory")
	f.StringVar(&contentDir, "content", "", "Lua content directory (default built-in)")
	f.BoolVar(&mute, "mute", false, "disable audio")
	f.BoolVar(&trace, "trace", false, "print transition events in script mode")
}

// loadConfig reads the config file and applies the command-line overrides.
// The default path may be absent.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Game.Seed = seed
	}
	if flags.Changed("character") {
		cfg.Game.Character = character
	}
	if flags.Changed("assets") {
		cfg.Assets.Dir = assetsDir
	}
	if flags.Changed("content") {
		cfg.Content.Dir = contentDir
	}
	if mute {
		cfg.Audio.Enabled = false
	}
	switch {
	case flags.Changed("frontend"):
		cfg.Game.Frontend = frontend
	case scriptFile != "":
		cfg.Game.Frontend = config.FrontendScript
	}
	if cfg.Game.Frontend == config.FrontendScript && scriptFile == "" {
		return nil, fmt.Errorf("frontend %q requires --script", config.FrontendScript)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadContent(dir string) (*types.Defs, error) {
	if dir == "" {
		return loader.Default()
	}
	return loader.Load(dir)
}

func runGame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, logCloser, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()
	log = log.With("run", uuid.NewString())
	slog.SetDefault(log)

	defs, err := loadContent(cfg.Content.Dir)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	store, closeStore := newStore(cfg.Save, log)
	defer closeStore()

	headless := cfg.Game.Frontend == config.FrontendScript
	var clk clock.Clock = clock.New()
	var manual *clock.Manual
	if headless {
		manual = clock.NewManual(time.Now())
		clk = manual
		cfg.Audio.Enabled = false
	}

	sprites := assets.NewSprites(cfg.Assets.Dir, logging.For("assets"))
	g, err := engine.New(engine.Options{
		Defs:     defs,
		Config:   cfg,
		Clock:    clk,
		Audio:    newAudio(cfg, log),
		Store:    store,
		Reloader: sprites,
		Logger:   logging.For("engine"),
		Seed:     cfg.Game.Seed,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	log.Info("starting", "frontend", cfg.Game.Frontend, "title", defs.Game.Title, "seed", cfg.Game.Seed, "rng", g.RNGPosition())
	g.Start()

	switch cfg.Game.Frontend {
	case config.FrontendScript:
		f, err := os.Open(scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()

		c := cli.New(g, manual)
		c.In = f
		c.Out = cmd.OutOrStdout()
		c.EchoInput = true
		c.Trace = trace
		return c.Run()

	case config.FrontendTUI:
		return tui.Run(g, logging.For("tui"))

	default:
		fonts := assets.NewFonts(cfg.Assets.Fonts, logging.For("fonts"))
		defer fonts.Close()
		return window.Run(g, render.New(sprites), window.Options{
			Title: defs.Game.Title,
			Fonts: fonts,
			Log:   logging.For("window"),
		})
	}
}

// newAudio opens the speaker, falling back to silence when audio is off or
// the device is unavailable.
func newAudio(cfg *config.Config, log *slog.Logger) audio.Service {
	if !cfg.Audio.Enabled {
		return audio.NewSilent()
	}
	m, err := mixer.New(mixer.Options{
		Dir:         cfg.Assets.Dir,
		MusicVolume: cfg.Audio.MusicVolume,
		SFXVolume:   cfg.Audio.SFXVolume,
		Logger:      logging.For("audio"),
	})
	if err != nil {
		log.Warn("audio unavailable, continuing silent", "err", err)
		return audio.NewSilent()
	}
	return m
}

// newStore builds the snapshot store. An unreachable Redis is logged but
// not fatal; saves report their own errors.
func newStore(cfg config.Save, log *slog.Logger) (save.Store, func()) {
	if cfg.Backend != config.BackendRedis {
		return save.NewFileStore(cfg.Path), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable", "addr", cfg.RedisAddr, "err", err)
	}
	return save.NewRedisStore(client, cfg.RedisKey), func() {
		if err := client.Close(); err != nil {
			log.Warn("closing redis client", "err", err)
		}
	}
}
