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

	"tech-hub-backend/internal/config"
	"tech-hub-backend/internal/database"
	"tech-hub-backend/internal/handlers"
	"tech-hub-backend/internal/live"
	"tech-hub-backend/internal/logging"
	"tech-hub-backend/internal/mailer"
	"tech-hub-backend/internal/repository"
	"tech-hub-backend/internal/service"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "server",
		Short:         "Event feedback backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			return serve(cmd.Context(), cfg, logger)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			if cfg.Store != config.StoreMongo {
				return fmt.Errorf("ensure-indexes needs STORE=%s", config.StoreMongo)
			}
			db, err := database.Connect(cmd.Context(), cfg.MongoURI, cfg.DBName, logger)
			if err != nil {
				return fmt.Errorf("failed to connect to MongoDB: %w", err)
			}
			defer database.Disconnect(context.Background(), db)
			return ensureIndexes(cmd.Context(), db)
		},
	})
	return root
}

func setup(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := repository.NewAttendeeRepo(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create attendee indexes: %w", err)
	}
	if err := repository.NewFeedbackRepo(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create feedback indexes: %w", err)
	}
	return nil
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize stores
	var (
		attendees service.AttendeeStore
		feedback  service.FeedbackStore
	)
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("⚠️  Using in-memory store, data is lost on restart")
		store := repository.NewMemoryStore()
		attendees, feedback = store.Attendees(), store.Feedback()
	default:
		db, err := database.Connect(ctx, cfg.MongoURI, cfg.DBName, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := database.Disconnect(ctx, db); err != nil {
				logger.Warn("failed to disconnect from MongoDB", zap.Error(err))
			}
		}()
		if err := ensureIndexes(ctx, db); err != nil {
			logger.Warn("⚠️  Warning: index setup failed", zap.Error(err))
		}
		attendees, feedback = repository.NewAttendeeRepo(db), repository.NewFeedbackRepo(db)
	}

	// Token issuing and scan code delivery
	var tokens service.TokenGenerator = service.UUIDTokens{}
	if cfg.TokenSecret != "" {
		tokens = service.SignedTokens{Secret: []byte(cfg.TokenSecret), Issuer: "tech-hub-backend"}
	}
	var scanMailer service.ScanCodeMailer = mailer.NewLogMailer(logger)
	if cfg.ResendAPIKey != "" {
		scanMailer = mailer.NewResend(cfg.ResendAPIKey, cfg.FromEmail, cfg.EventName, logger)
	} else {
		logger.Warn("⚠️  RESEND_API_KEY not set, scan codes are logged instead of emailed")
	}

	// Live updates: one hub for the process lifetime.
	hub := live.NewHub(logger, cfg.AllowedOrigins)
	defer hub.Close()
	var (
		publisher live.Publisher = hub
		liveRoute http.Handler   = hub
	)
	if !cfg.LiveEnabled {
		logger.Warn("⚠️  Live updates disabled, new feedback is only logged")
		publisher, liveRoute = live.NewLogPublisher(logger), nil
	}

	registration := service.NewRegistrationService(attendees, tokens, cfg.EventScanCode, scanMailer, logger)
	submission := service.NewSubmissionService(attendees, feedback, publisher, logger)
	query := service.NewQueryService(feedback)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: handlers.NewRouter(handlers.RouterConfig{
			Registration:   registration,
			Submission:     submission,
			Query:          query,
			Live:           liveRoute,
			AllowedOrigins: cfg.AllowedOrigins,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("🚀 Tech Hub backend starting", zap.String("addr", srv.Addr), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
