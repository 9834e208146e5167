package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/veylen/mapletide/internal/config"
	"github.com/veylen/mapletide/internal/detect"
	"github.com/veylen/mapletide/internal/engine"
	"github.com/veylen/mapletide/internal/platform"
	"github.com/veylen/mapletide/internal/store"
	"github.com/veylen/mapletide/internal/tui"
	"github.com/veylen/mapletide/internal/web"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Parse flags
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "", "Path to config file (default: data dir config.toml)")
		debug       = flag.Bool("debug", false, "Enable debug logging")
		headless    = flag.Bool("headless", false, "Run without the TUI")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("mapletide %s\n", Version)
		os.Exit(0)
	}

	if *configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to resolve config path: %v\n", err)
			os.Exit(1)
		}
		*configPath = path
	}

	// Initialize logging
	if err := initLogging(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	log.Info().Str("version", Version).Msg("Starting mapletide")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if cfg.Log.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Interface("config", cfg).Msg("Configuration loaded")

	// Initialize store
	s, err := store.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer s.Close()
	log.Debug().Msg("Store initialized")

	// Initialize event bus
	bus := engine.NewEventBus(1000)
	defer bus.Close()

	// Input and capture drivers. OS-specific backends plug in here; the
	// defaults rehearse the routine without touching a live window.
	keys := platform.NewLogSender()
	detector := detect.NewNull()

	// Load the routine
	actions, charConfig, mode, err := loadRoutine(s, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load routine")
	}
	log.Info().
		Str("map", cfg.Engine.Map).
		Str("character", cfg.Engine.Character).
		Int("actions", len(actions)).
		Msg("Routine loaded")

	// Assemble and start the engine
	eng := engine.New(keys, detector, charConfig, bus)
	eng.UpdateActions(actions, charConfig, mode)
	eng.SetHalting(cfg.Engine.Halting)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := eng.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Engine stopped with error")
		}
	}()

	// Event stream server
	var srv *web.Server
	if cfg.Web.Enabled {
		srv = web.NewServer(cfg.Web.ListenAddr, bus)
		srv.OnHalting = eng.SetHalting
		go func() {
			if err := srv.Start(); err != nil {
				log.Error().Err(err).Msg("Event stream server failed")
			}
		}()
	}

	// Reload the config and routine when the config file changes
	watcher, err := config.Watch(*configPath)
	if err != nil {
		log.Warn().Err(err).Msg("Config watching unavailable")
	} else {
		defer watcher.Close()
		go watchConfig(watcher, *configPath, s, eng)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if *headless {
		<-sigCh
		log.Info().Msg("Received shutdown signal")
	} else {
		eventCh := bus.Subscribe()
		model := tui.New(eng, eventCh, cfg.Engine.Halting)
		program := tea.NewProgram(model, tea.WithAltScreen())

		go func() {
			<-sigCh
			log.Info().Msg("Received shutdown signal")
			program.Quit()
		}()

		if _, err := program.Run(); err != nil {
			log.Fatal().Err(err).Msg("TUI error")
		}
	}

	// Clean shutdown
	cancel()
	if srv != nil {
		ctx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Event stream shutdown failed")
		}
		shutdownCancel()
	}

	log.Info().Msg("mapletide shutdown complete")
}

func initLogging(debug bool) error {
	// Ensure data directory exists
	dataDir, err := config.EnsureDataDir()
	if err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	// Open log file (truncate on startup)
	logPath := filepath.Join(dataDir, "mapletide.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Log to file only (TUI owns stdout/stderr)
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()

	return nil
}

// loadRoutine fetches the configured map and character, seeding defaults on
// first run so the program comes up without manual setup.
func loadRoutine(s *store.Store, cfg *config.Config) ([]engine.Action, engine.CharacterConfig, engine.RotatorMode, error) {
	m, err := s.GetMap(cfg.Engine.Map)
	if errors.Is(err, store.ErrNotFound) {
		log.Info().Str("map", cfg.Engine.Map).Msg("Map not found, seeding empty routine")
		m, err = s.UpsertMap(cfg.Engine.Map, store.MapData{
			RotationMode: store.RotationStartToEnd,
		})
	}
	if err != nil {
		return nil, engine.CharacterConfig{}, 0, fmt.Errorf("load map: %w", err)
	}

	c, err := s.GetCharacter(cfg.Engine.Character)
	if errors.Is(err, store.ErrNotFound) {
		log.Info().Str("character", cfg.Engine.Character).Msg("Character not found, seeding default bindings")
		c, err = s.UpsertCharacter(cfg.Engine.Character, store.CharacterData{
			InteractKey: platform.KeySpace.String(),
			JumpKey:     platform.KeyAlt.String(),
		})
	}
	if err != nil {
		return nil, engine.CharacterConfig{}, 0, fmt.Errorf("load character: %w", err)
	}

	actions, err := actionsFromStore(m.Data)
	if err != nil {
		return nil, engine.CharacterConfig{}, 0, fmt.Errorf("convert actions: %w", err)
	}

	mode, err := rotatorModeFromStore(m.Data.RotationMode)
	if err != nil {
		return nil, engine.CharacterConfig{}, 0, err
	}

	return actions, characterFromStore(c.Data, m.Data), mode, nil
}

// watchConfig rebuilds the routine whenever the config file is rewritten.
func watchConfig(watcher *config.Watcher, path string, s *store.Store, eng *engine.Engine) {
	for {
		select {
		case _, ok := <-watcher.Events:
			if !ok {
				return
			}
			log.Info().Str("path", path).Msg("Config changed, reloading routine")

			cfg, err := config.Load(path)
			if err != nil {
				log.Error().Err(err).Msg("Config reload failed")
				continue
			}

			actions, charConfig, mode, err := loadRoutine(s, cfg)
			if err != nil {
				log.Error().Err(err).Msg("Routine reload failed")
				continue
			}

			eng.UpdateActions(actions, charConfig, mode)
			eng.SetHalting(cfg.Engine.Halting)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Config watcher error")
		}
	}
}
