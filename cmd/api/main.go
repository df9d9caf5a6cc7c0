package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smarthome-mall/internal/cart"
	"smarthome-mall/internal/config"
	"smarthome-mall/internal/database"
	"smarthome-mall/internal/events"
	"smarthome-mall/internal/handler"
	"smarthome-mall/internal/payment"
	"smarthome-mall/internal/repository"
	"smarthome-mall/internal/router"
	"smarthome-mall/internal/service"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, "smarthome-api")
	logger.Info().Msg("starting smarthome-mall API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	discountRepo := repository.NewDiscountRepository(pool, logger)

	cartStorage, closeCarts, err := newCartStorage(ctx, cfg.Cart, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cart storage: %w", err)
	}
	defer closeCarts()

	publisher := newPublisher(cfg.Kafka, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	payments := newPaymentProvider(cfg.Payment, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(
		orderRepo,
		productRepo,
		discountRepo,
		payments,
		publisher,
		service.PricingSettings{Shipping: cfg.Pricing.Shipping, Currency: cfg.Pricing.Currency},
		logger,
	)
	discountService := service.NewDiscountService(discountRepo, logger)
	cartService := service.NewCartService(cartStorage, productRepo, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Product:  handler.NewProductHandler(productService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Discount: handler.NewDiscountHandler(discountService, logger),
	}, router.Options{
		APIKey:         cfg.Auth.APIKey,
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + cfg.Payment.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newCartStorage returns the configured cart mirror and a function that
// releases it.
func newCartStorage(ctx context.Context, cfg config.CartConfig, logger zerolog.Logger) (cart.Storage, func(), error) {
	if cfg.Backend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.RedisAddr, err)
		}

		logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.TTL).Msg("using redis cart storage")
		return cart.NewRedisStorage(client, cfg.TTL, logger), func() { client.Close() }, nil
	}

	storage, err := cart.NewFileStorage(cfg.Dir, logger)
	if err != nil {
		return nil, nil, err
	}

	logger.Info().Str("dir", cfg.Dir).Msg("using file cart storage")
	return storage, func() {}, nil
}

func newPublisher(cfg config.KafkaConfig, logger zerolog.Logger) events.Publisher {
	if !cfg.Enabled {
		logger.Info().Msg("order events disabled (Kafka disabled)")
		return events.NewNoopPublisher()
	}

	logger.Info().Str("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("publishing order events to Kafka")
	return events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Brokers, cfg.Topic), logger)
}

func newPaymentProvider(cfg config.PaymentConfig, logger zerolog.Logger) payment.Provider {
	if cfg.Endpoint == "" {
		logger.Warn().Msg("no payment endpoint configured, using manual payment")
		return payment.NewManualProvider(cfg.ManualBaseURL, logger)
	}
	return payment.NewHTTPProvider(cfg.Endpoint, cfg.APIKey, cfg.Timeout, logger)
}
