package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/AnshRaj112/butterfly-accounts/internal/config"
	"github.com/AnshRaj112/butterfly-accounts/internal/database"
	"github.com/AnshRaj112/butterfly-accounts/internal/handlers"
	"github.com/AnshRaj112/butterfly-accounts/internal/logging"
	"github.com/AnshRaj112/butterfly-accounts/internal/middleware"
	"github.com/AnshRaj112/butterfly-accounts/internal/routes"
	"github.com/AnshRaj112/butterfly-accounts/internal/services"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load env
	envErr := godotenv.Load()
	cfg := config.Load()

	logger := logging.NewLogger(!cfg.IsProduction())
	if envErr != nil {
		logger.Info("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := database.ConnectMongo(ctx, cfg.Mongo.URI, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.DisconnectMongo(mongoClient); err != nil {
			logger.Error("disconnect mongo", "error", err)
		}
	}()

	redisClient, err := database.ConnectRedis(ctx, cfg.Redis.URI, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	store := services.NewMongoAccountStore(mongoClient.Database(cfg.Mongo.Database), cfg.Mongo.UsersCollection)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}
	logger.Info("account indexes ensured")

	cachedStore := services.NewCachedAccountStore(store, redisClient, cfg.Redis.CacheTTL, logger)

	tokens := services.NewTokenIssuer(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.TTL)
	accounts := services.NewAccountService(
		cachedStore,
		services.NewHTTPLocationClient(cfg.Location.URL, cfg.Location.Timeout),
		services.NewRedisQueuePublisher(redisClient),
		tokens,
		cfg,
		logger,
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Production: SecurityHeaders, then per-IP rate limiting
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		logger.Info("production security enabled")
	}

	routes.SetupRoutes(r,
		handlers.NewHandler(accounts, logger),
		middleware.NewAuthenticator(tokens),
		middleware.NewRateLimiter(redisClient, cfg.RateLimit.Window, cfg.RateLimit.MaxRequests, logger),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("account service listening", "addr", srv.Addr, "env", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
