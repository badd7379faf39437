package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayfinder_backend/internal/adapters/storage"
	"stayfinder_backend/internal/auth"
	authadapter "stayfinder_backend/internal/auth/adapter"
	"stayfinder_backend/internal/bookings"
	"stayfinder_backend/internal/bookings/ports"
	"stayfinder_backend/internal/email"
	"stayfinder_backend/internal/events"
	"stayfinder_backend/internal/gazetteer"
	apphttp "stayfinder_backend/internal/http"
	"stayfinder_backend/internal/http/router"
	"stayfinder_backend/internal/listings"
	listingsservice "stayfinder_backend/internal/listings/service"
	"stayfinder_backend/internal/maps"
	"stayfinder_backend/internal/notification"
	"stayfinder_backend/internal/realtime"
	"stayfinder_backend/internal/scheduler"
	"stayfinder_backend/internal/search"
	"stayfinder_backend/migrations"
	"stayfinder_backend/platform/config"
	"stayfinder_backend/platform/db"
	platformevents "stayfinder_backend/platform/events"
	"stayfinder_backend/platform/logger"
	"stayfinder_backend/platform/phone"
	"stayfinder_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, bucket string) {
	if err := withRetry(ctx, log, "ensure "+bucket+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	colleges, err := gazetteer.Load(cfg.GetGazetteerPath())
	if err != nil {
		log.Warn("college table unavailable; distance search disabled", "path", cfg.GetGazetteerPath(), "error", err)
		colleges = gazetteer.Empty()
	} else {
		log.GazetteerLoaded(cfg.GetGazetteerPath(), colleges.Len())
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	if cfg.IsKafkaEnabled() {
		forwarder := platformevents.NewKafkaForwarder(platformevents.NewKafkaWriter(cfg.GetKafkaBrokers(), cfg.GetKafkaTopic()))
		defer func() { _ = forwarder.Close() }()
		eventBus.Subscribe(platformevents.Wildcard, forwarder)
		log.Info("kafka event forwarding enabled", "topic", cfg.GetKafkaTopic())
	}

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender := email.NewSender(cfg, cfg.GetAppBaseURL())

	// Shared validator instance for dependency injection
	val := validator.New()
	phones := phone.NewNormalizer(cfg.GetPhoneRegion())

	// Storage service for listing photos (MinIO), optional
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, minioSvc, cfg.GetMinioBucketListingPhotos())
		storageSvc = minioSvc
		log.Info("storage service initialized", "listingPhotosBucket", cfg.GetMinioBucketListingPhotos())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; photo uploads disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	mapsModule := maps.NewModule(cfg, log)
	var geocoder listingsservice.Geocoder
	if cfg.GetGeocoderURL() != "" {
		geocoder = mapsModule.Service()
	}

	authModule := auth.NewModule(pool, cfg, phones, eventBus, val, log)
	users := authadapter.NewUserProviderAdapter(authModule.Repository())

	listingsModule := listings.NewModule(pool, storageSvc, geocoder, eventBus, val, cfg, log)
	searchModule := search.NewModule(pool, colleges, eventBus, val, cfg, log)
	gazetteerModule := gazetteer.NewModule(colleges)
	bookingsModule := bookings.NewModule(pool, listingsModule.Repository(), users, sender, reminderScheduler, eventBus, val, cfg, log)

	realtimeModule := realtime.NewModule(cfg, initPresenceRedis(cfg, log), log)

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, users, realtimeModule.Hub(), cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			listingsModule,
			searchModule,
			gazetteerModule,
			bookingsModule,
			mapsModule,
			realtimeModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return realtimeModule.Hub().Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	eventBus.Wait()
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (ports.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; booking reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

// initPresenceRedis returns nil when presence stays in process memory.
func initPresenceRedis(cfg config.RealtimeConfig, log *logger.Logger) redis.UniversalClient {
	if !cfg.IsRedisPresenceEnabled() {
		return nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; presence kept in memory", "error", err)
		return nil
	}
	if opts.TLSConfig != nil && cfg.GetRedisTLSInsecure() {
		opts.TLSConfig.InsecureSkipVerify = true
	}
	log.Info("realtime presence shared through redis")
	return redis.NewClient(opts)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
