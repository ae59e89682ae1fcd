package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/board"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/clock"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/config"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/db"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/middleware"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/hub"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/mqtt"
	redisclient "github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/redis"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/timetable"
)

func main() {
	config.LoadEnv()
	setupLogger(config.GetEnv("APP_ENV", "development"))

	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		if err := hashPassword(os.Stdin, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("hash-password failed")
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store db.Store
	if cfg.DatabaseURL != "" {
		if err := db.Init(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("db init")
		}
		defer db.Close()
		if err := db.RunMigrations(db.DB, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("db migrate")
		}
		store = db.NewStore(db.DB)
	}

	files := InitStorage(cfg)
	themes := initThemes(ctx, cfg)

	civil, err := clock.NewCivil(cfg.Locality.TimeZone)
	if err != nil {
		log.Fatal().Err(err).Msg("timezone")
	}

	source, err := timetable.NewSource(timetable.Options{
		Kind:    cfg.TimetableSource,
		Path:    cfg.TimetablePath,
		URL:     cfg.TimetableURL,
		Key:     cfg.TimetableKey,
		Storage: files,
		Store:   store,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("timetable source")
	}

	stream := hub.New()
	defer stream.Close()
	sinks := board.MultiSink{stream}

	if cfg.MQTTBrokerURL != "" {
		client, err := mqtt.CreateMQTTClient(cfg.MQTTBrokerURL, "bpt-"+cfg.Locality.Name)
		if err != nil {
			log.Error().Err(err).Msg("mqtt unavailable, continuing without it")
		} else {
			defer client.Disconnect(250)
			sinks = append(sinks, mqtt.NewSink(client, cfg.MQTTTopicPrefix))
		}
	}

	var locator board.Locator
	if loc := cfg.Locality.Location; loc != nil {
		locator = board.StaticLocator{Point: model.GeoPoint{Lat: loc.Lat, Lon: loc.Lon}}
	}

	b, err := board.New(board.Config{
		Locality: cfg.Locality.Name,
		Civil:    civil,
		Source:   source,
		Locator:  locator,
		Sink:     sinks,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("board")
	}
	go func() {
		if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("board stopped")
		}
	}()
	if locator != nil {
		b.RequestLocation()
	}

	if fs, ok := source.(*timetable.FileSource); ok && cfg.WatchTimetable {
		go func() {
			if err := fs.Watch(ctx, b.Refresh); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Str("path", fs.Path).Msg("timetable watch stopped")
			}
		}()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	tmpl, err := LoadTemplates()
	if err != nil {
		log.Fatal().Err(err).Msg("templates")
	}

	RegisterRoutes(r, Deps{
		Config:  cfg,
		Board:   b,
		Hub:     stream,
		Store:   store,
		Storage: files,
		Themes:  themes,
	}, tmpl)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.ServerAddress).Str("locality", cfg.Locality.Name).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func setupLogger(appEnv string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if appEnv == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// initThemes uses redis when it answers, otherwise an in-process store.
func initThemes(ctx context.Context, cfg *config.Config) redisclient.ThemeStore {
	if cfg.RedisAddress == "" {
		return redisclient.NewMemoryThemeStore()
	}
	rdb := redisclient.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	if err := redisclient.Ping(ctx, rdb); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddress).Msg("redis unreachable, themes kept in memory")
		return redisclient.NewMemoryThemeStore()
	}
	log.Info().Str("addr", cfg.RedisAddress).Msg("connected to redis")
	return redisclient.NewRedisThemeStore(rdb)
}
