package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	supa "pura-pata/internal/adapters/auth/supabase"
	"pura-pata/internal/adapters/messaging/natsbus"
	pg "pura-pata/internal/adapters/storage/postgres"
	s3store "pura-pata/internal/adapters/storage/s3"
	"pura-pata/internal/domain/dogs"
	"pura-pata/internal/domain/photos"
	"pura-pata/internal/platform/cache"
	"pura-pata/internal/platform/config"
	"pura-pata/internal/platform/logger"
	"pura-pata/internal/ports/auth"
	"pura-pata/internal/router"

	"golang.org/x/sync/errgroup"
)

// @title Pura Pata API
// @version 1.0
// @description Publicaciones de perros en adopción, historial de estados y búsqueda por cercanía.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pura-pata: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("PURA_PATA_CONFIG"), ".")
	if err != nil {
		return err
	}

	zl, err := logger.New(logger.Options{
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      logger.ParseFormat(cfg.Log.Format),
		App:         "pura-pata-api",
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer zl.Flush(2 * time.Second)
	var log logger.Logger = zl

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		Logger:             log,
		PublicPhotoBaseURL: cfg.Storage.PublicBaseURL,
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
	}

	// Storage
	if cfg.Database.URL != "" {
		db, err := pg.Open(ctx, cfg.Database.URL, pg.OpenOptions{
			MaxOpenConns:   cfg.Database.MaxOpenConns,
			ConnectTimeout: cfg.Database.ConnectTimeout,
			Log:            log,
		})
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer func(db *sql.DB) { _ = db.Close() }(db)

		if cfg.Database.Migrate {
			if err := pg.Migrate(ctx, db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		opts.DB = db
	} else {
		log.Warn("DATABASE_URL not set, using in-memory store", nil)
	}

	// Identidad
	verifier, closeCache, err := buildVerifier(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()
	opts.AuthVerifier = verifier

	// Eventos de cambio de estado
	if cfg.NATS.URL != "" {
		pub, err := natsbus.NewPublisher(natsbus.Config{
			URL:            cfg.NATS.URL,
			ConnectionName: cfg.NATS.ConnectionName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
		}, log)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer pub.Close()
		opts.Events = pub
	} else {
		opts.Events = dogs.NoopPublisher{}
	}

	// Fotos
	if cfg.Storage.Bucket != "" {
		presigner, err := s3store.NewPresigner(ctx, s3store.Config{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UsePathStyle:    cfg.Storage.UsePathStyle,
		})
		if err != nil {
			return fmt.Errorf("s3: %w", err)
		}
		opts.Presigner = photos.Presigner(presigner)
	}

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "environment": cfg.Environment})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down", nil)
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildVerifier elige cómo validar tokens:
// JWT local si hay secreto, GoTrue remoto si hay URL+key, y si no modo dev (nil).
// El resultado se cachea en Redis si está configurado, o en memoria.
func buildVerifier(ctx context.Context, cfg *config.Config, log logger.Logger) (auth.AuthVerifier, func(), error) {
	noop := func() {}

	var next auth.AuthVerifier
	switch {
	case cfg.Supabase.JWTSecret != "":
		v, err := supa.NewJWTVerifier(cfg.Supabase.JWTSecret, cfg.Supabase.Audience)
		if err != nil {
			return nil, noop, fmt.Errorf("jwt verifier: %w", err)
		}
		next = v
		log.Info("auth: local jwt verification", nil)
	case cfg.Supabase.URL != "" && cfg.Supabase.Key != "":
		client, err := supa.NewClient(supa.Config{
			URL:        cfg.Supabase.URL,
			APIKey:     cfg.Supabase.Key,
			Timeout:    cfg.Supabase.Timeout,
			MaxRetries: cfg.Supabase.MaxRetries,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("supabase client: %w", err)
		}
		next = supa.NewVerifier(client)
		log.Info("auth: remote supabase verification", map[string]any{"url": cfg.Supabase.URL})
	default:
		if !cfg.DevAuthAllowed() {
			return nil, noop, errors.New("no identity provider configured (set SUPABASE_JWT_SECRET or SUPABASE_URL/SUPABASE_KEY, or ENVIRONMENT=development with DEV_AUTH=true)")
		}
		log.Warn("auth: dev mode, X-Debug-User-ID accepted", nil)
		return nil, noop, nil
	}

	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisCacheFromURL(ctx, cfg.Redis.URL, cfg.Redis.Prefix)
		if err != nil {
			return nil, noop, fmt.Errorf("redis: %w", err)
		}
		return supa.NewCachingVerifier(next, rc, cfg.Supabase.CacheTTL, log), func() { _ = rc.Close() }, nil
	}
	return supa.NewCachingVerifier(next, cache.NewMemoryCache(), cfg.Supabase.CacheTTL, log), noop, nil
}
