package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homescope/listings/internal/config"
	"github.com/homescope/listings/internal/cookies"
	"github.com/homescope/listings/internal/database"
	"github.com/homescope/listings/internal/media"
	"github.com/homescope/listings/internal/modules/auth"
	"github.com/homescope/listings/internal/modules/contacts"
	"github.com/homescope/listings/internal/modules/leads"
	"github.com/homescope/listings/internal/modules/properties"
	"github.com/homescope/listings/internal/modules/roles"
	"github.com/homescope/listings/internal/modules/users"
	"github.com/homescope/listings/internal/personalization"
	"github.com/homescope/listings/internal/scheduler"
	"github.com/homescope/listings/internal/sequence"
	"github.com/homescope/listings/internal/server"
	"github.com/homescope/listings/pkg/logger"
)

func main() {
	// Load configuration first so the log level follows it
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting listings service")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(
		users.InitSchema,
		roles.InitSchema,
		properties.InitSchema,
		leads.InitSchema,
		contacts.InitSchema,
		sequence.InitSchema,
	); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Seed the sequence counters from existing rows
	if err := sequence.Seed(db.Conn(), "lead", "leads"); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed lead sequence")
	}
	if err := sequence.Seed(db.Conn(), "property", "properties"); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed property sequence")
	}

	// Cookie encryption
	codec, err := cookies.NewCodec(cfg.CookieKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cookie codec")
	}
	cookieManager := cookies.NewManager(codec, log)

	// Media storage
	var store media.Store
	if cfg.MediaBucket != "" {
		store, err = media.NewS3Store(context.Background(), media.S3Config{
			Bucket:    cfg.MediaBucket,
			Region:    cfg.MediaRegion,
			Endpoint:  cfg.MediaEndpoint,
			PathStyle: cfg.MediaPathStyle,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize media store")
		}
	} else {
		log.Warn().Msg("MEDIA_BUCKET not set, storing media in memory")
		store = media.NewMemoryStore()
	}
	uploader := media.NewUploader(store, log)

	// Repositories
	usersRepo := users.NewRepository(db.Conn(), log)
	rolesRepo := roles.NewRepository(db.Conn(), log)
	propertiesRepo := properties.NewRepository(db.Conn(), log)
	leadsRepo := leads.NewRepository(db.Conn(), log)
	contactsRepo := contacts.NewRepository(db.Conn(), log)

	// Sequence generators
	leadSeq := sequence.New(db.Conn(), "lead", cfg.LeadPrefix, log)
	propertySeq := sequence.New(db.Conn(), "property", cfg.PropertyPrefix, log)

	// Scheduler and background jobs
	sched := scheduler.New(log)
	if cfg.PendingTTLDays > 0 {
		job := properties.NewExpirePendingJob(propertiesRepo, cfg.PendingTTLDays, log)
		if err := sched.AddJob("0 0 2 * * *", job); err != nil {
			log.Fatal().Err(err).Msg("Failed to register pending-expiry job")
		}
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:            cfg.Port,
		Log:             log,
		DevMode:         cfg.DevMode,
		Personalization: personalization.New(cookieManager, log),
		Users:           users.NewHandler(usersRepo, log),
		Roles:           roles.NewHandler(rolesRepo, log),
		Properties:      properties.NewHandler(propertiesRepo, propertySeq, uploader, cookieManager, log),
		Leads:           leads.NewHandler(leadsRepo, leadSeq, log),
		Contacts:        contacts.NewHandler(contactsRepo, log),
		Auth:            auth.NewHandler(usersRepo, []byte(cfg.JWTSecret), log),
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
