package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/config"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/handlers"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/messaging"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/repository"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/service"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/vapi"
	"github.com/Lixing-Zhang/restaurant-backoffice/pkg/logger"
)

// storage bundles the repositories of whichever driver is configured.
type storage struct {
	menu     repository.MenuRepository
	orders   repository.OrderRepository
	settings repository.SettingsRepository
	pinger   repository.Pinger
	close    func(ctx context.Context) error
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	if strings.EqualFold(strings.TrimSpace(cfg.LogFormat), "text") {
		log = logger.NewWithFormat(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	}
	slog.SetDefault(log)

	log.Info("starting restaurant back-office server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"storage_driver", cfg.Storage.Driver,
	)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	// Initialize repositories
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			log.Error("failed to close storage", "error", err)
		}
	}()
	log.Info("storage ready", "driver", cfg.Storage.Driver)

	// Order events are optional
	var events service.OrderEvents
	if cfg.Messaging.AMQPURL != "" {
		publisher, err := messaging.Dial(cfg.Messaging.AMQPURL, cfg.Messaging.Exchange, log)
		if err != nil {
			return err
		}
		defer publisher.Close()
		events = publisher
		log.Info("publishing order events", "exchange", cfg.Messaging.Exchange)
	}

	if cfg.Vapi.PrivateKey == "" {
		log.Warn("VAPI_PRIVATE_KEY is not set, voice order webhooks will reject every call")
	}

	// Initialize services
	dishService := service.NewMenuService(store.menu, models.KindDish)
	drinkService := service.NewMenuService(store.menu, models.KindDrink)
	sideService := service.NewMenuService(store.menu, models.KindSide)
	orderService := service.NewOrderService(store.orders, service.StatusPolicy(cfg.Orders.StatusPolicy), events, log)
	settingsService := service.NewSettingsService(store.settings)
	catalog := service.NewCatalog(dishService, drinkService, sideService)
	adapter := vapi.NewAdapter(catalog, orderService, settingsService, vapi.UnmatchedPolicy(cfg.Vapi.UnmatchedItems), log)

	// Initialize handlers and router
	router := handlers.NewRouter(handlers.RouterConfig{
		Dishes:         handlers.NewMenuHandler(dishService, log),
		Drinks:         handlers.NewMenuHandler(drinkService, log),
		Sides:          handlers.NewMenuHandler(sideService, log),
		Orders:         handlers.NewOrderHandler(orderService, log),
		Settings:       handlers.NewSettingsHandler(settingsService, log),
		Vapi:           handlers.NewVapiHandler(adapter, cfg.Vapi.PublicKey, log),
		Health:         handlers.NewHealthHandler(store.pinger, log),
		WebhookSecret:  cfg.Vapi.PrivateKey,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: 60 * time.Second,
		Logger:         log,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		log.Info("shutting down server...", "signal", sig.String())
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		mem := repository.NewInMemoryStore()
		return &storage{
			menu:     mem.Menu,
			orders:   mem.Orders,
			settings: mem.Settings,
			pinger:   mem,
			close:    func(context.Context) error { return nil },
		}, nil
	default:
		timeout := time.Duration(cfg.Storage.Timeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		connectCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		mongoStore, err := repository.NewMongoStore(connectCtx, cfg.Storage.MongoURI, cfg.Storage.Database, timeout)
		if err != nil {
			return nil, err
		}
		return &storage{
			menu:     mongoStore.Menu(),
			orders:   mongoStore.Orders(),
			settings: mongoStore.Settings(),
			pinger:   mongoStore,
			close:    mongoStore.Close,
		}, nil
	}
}
