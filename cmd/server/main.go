package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-renderer/internal/adapter/http"
	repo "resume-renderer/internal/adapter/repository"
	"resume-renderer/internal/animation"
	"resume-renderer/internal/compose"
	"resume-renderer/internal/config"
	"resume-renderer/internal/infrastructure/migration"
	"resume-renderer/internal/logging"
	"resume-renderer/internal/usecase"
	infra "resume-renderer/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.yaml", "path to the yaml config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cfg.Logger, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// jobs store: postgres when configured, memory otherwise
	var jobs httpadapter.JobStore
	if cfg.Database.URL != "" {
		pool, err := infra.NewJobsPool(ctx, cfg.Database.URL)
		if err != nil {
			log.Warn().Err(err).Msg("jobs DB not available, keeping jobs in memory")
		} else {
			defer pool.Close()
			if err := migration.RunMigrations(ctx, pool, log); err != nil {
				log.Fatal().Err(err).Msg("run migrations")
			}
			jobs = repo.NewJobsRepo(pool)
		}
	}
	if jobs == nil {
		jobs = repo.NewMemoryRepo()
	}

	fonts, err := compose.LoadFonts(cfg.Render.FontRegular, cfg.Render.FontBold)
	if err != nil {
		log.Fatal().Err(err).Msg("load fonts")
	}
	surface := infra.NewChromeSurface(infra.ChromeOptions{
		ExecPath:     cfg.Chrome.ExecPath,
		Timeout:      cfg.Chrome.Timeout(),
		ReadyTimeout: cfg.Chrome.ReadyTimeout(),
	}, log)
	defer surface.Close()

	geom := cfg.Render.Geometry()
	compositors := map[compose.Backend]compose.Compositor{
		compose.BackendRaster: compose.NewRasterCompositor(surface, geom, log),
		compose.BackendVector: compose.NewVectorCompositor(geom, fonts, log),
	}

	var cache usecase.Cache
	if cfg.Redis.Address != "" {
		rc, err := infra.NewRedisCache(ctx, infra.RedisOptions{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL(),
		})
		if err != nil {
			log.Warn().Err(err).Msg("render cache disabled")
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	var store usecase.Store
	if cfg.MinIO.Enabled {
		ms, err := infra.NewMinIOStore(ctx, infra.MinIOOptions{
			Endpoint:        cfg.MinIO.Endpoint,
			AccessKeyID:     cfg.MinIO.AccessKeyID,
			SecretAccessKey: cfg.MinIO.SecretAccessKey,
			UseSSL:          cfg.MinIO.UseSSL,
			BucketName:      cfg.MinIO.BucketName,
			URLExpiry:       time.Duration(cfg.MinIO.URLExpiryHours) * time.Hour,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("init minio store")
		}
		store = ms
	} else if cfg.Storage.LocalDir != "" {
		ls, err := infra.NewLocalStore(cfg.Storage.LocalDir)
		if err != nil {
			log.Fatal().Err(err).Msg("init local store")
		}
		store = ls
	}

	backend, _ := compose.ParseBackend(cfg.Render.Backend)
	processor := usecase.NewProcessor(compositors, jobs, cache, store, usecase.Options{
		Page:     compose.A4,
		Attempts: cfg.Render.Attempts,
		Backoff:  cfg.Render.Backoff(),
	}, log)

	queue := usecase.NewQueue(processor, cfg.Server.QueueSize, log)
	go queue.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:               "resume-renderer",
		DisableStartupMessage: true,
		BodyLimit:             8 * 1024 * 1024,
	})
	animator := animation.NewAnimator(cfg.Animation.Duration(), cfg.Animation.Frame())
	httpadapter.NewHandler(processor, queue, jobs, animator, backend, log).Register(app)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("backend", string(backend)).Msg("listening")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
