package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/asgsolar/luxclient/internal/config"
	"github.com/asgsolar/luxclient/internal/domain"
	"github.com/asgsolar/luxclient/internal/keystore"
	"github.com/asgsolar/luxclient/internal/query"
	"github.com/asgsolar/luxclient/internal/session"
	"github.com/asgsolar/luxclient/internal/state"
	"github.com/asgsolar/luxclient/internal/transport"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Logging)

	log.Info().
		Str("base_url", cfg.API.BaseURL).
		Str("keystore", cfg.Keystore.Backend).
		Msg("Starting Lux monitoring client")

	keys, err := buildKeystore(cfg.Keystore)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize credential store")
	}

	sess := session.NewStore()
	client := transport.NewClient(cfg.API.BaseURL, cfg.API.Timeout, sess, keys, log.Logger)
	queries := query.New(client, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := client.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("Session bootstrap failed")
	}
	if sess.Get().IsAuthenticated {
		log.Info().Msg("Authenticated from persisted credentials")
		// Replace the bootstrap placeholder with the full profile.
		if _, err := queries.Profile(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to fetch profile")
		}
	} else {
		log.Info().Msg("No valid session; log in via the app to provision credentials")
	}

	solar := state.SolarState{}
	if dash, err := queries.SiteDashboard(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to fetch site dashboard")
	} else if !dash.Skipped {
		solar = solar.WithSite(dash.Data, time.Now())
		log.Info().
			Str("site", dash.Data.Reference).
			Str("health", string(dash.Data.SystemHealth)).
			Msg("Site dashboard loaded")
	}

	poller := query.NewPoller(queries, cfg.Polling.LiveInterval, log.Logger, func(live domain.LiveGeneration) {
		solar = solar.WithLiveGeneration(live, time.Now())
		log.Info().
			Float64("current_kw", live.CurrentKW).
			Float64("today_kwh", live.TodayKWH).
			Msg("Live generation reading")
	})
	poller.SetActive(true)

	go func() {
		if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("Poller stopped")
		}
	}()

	// SIGUSR1/SIGUSR2 stand in for the host's background/foreground
	// lifecycle events.
	lifecycle := make(chan os.Signal, 1)
	signal.Notify(lifecycle, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		for sig := range lifecycle {
			poller.SetActive(sig == syscall.SIGUSR2)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	cancel()
}

func setupLogger(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if cfg.File != "" {
		w, err := rotatelogs.New(
			cfg.File+".%Y%m%d",
			rotatelogs.WithLinkName(cfg.File),
			rotatelogs.WithRotationCount(7),
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open log file")
		}
		out = w
	} else if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	log.Logger = log.Output(out)
}

func buildKeystore(cfg config.KeystoreConfig) (keystore.Store, error) {
	switch cfg.Backend {
	case "keyring":
		return keystore.NewKeyringStore(), nil
	case "file":
		return keystore.NewFileStore(cfg.FilePath, cfg.Passphrase)
	case "memory":
		return keystore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown keystore backend %q", cfg.Backend)
	}
}
