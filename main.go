package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokotopup/internal/atlantic"
	"tokotopup/internal/cache"
	"tokotopup/internal/clock"
	"tokotopup/internal/config"
	"tokotopup/internal/repositories"
	"tokotopup/internal/server"
	"tokotopup/internal/services"
	"tokotopup/internal/tracing"
	"tokotopup/pkg/rabbitmq"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	// --- Configuration ---
	cfg := config.Load()
	if cfg.AtlanticKey == "" {
		log.Println("Warning: ATLANTIC_KEY is not set, upstream calls will be rejected")
	}

	// --- Tracing ---
	if cfg.TracingEndpoint != "" {
		tp, err := tracing.InitTracer(tracing.Config{
			ServiceName:    cfg.ServiceName,
			ServiceVersion: Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.TracingEndpoint,
			SampleRatio:    cfg.TracingSampleRatio,
		})
		if err != nil {
			log.Printf("Tracing disabled: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(ctx); err != nil {
					log.Printf("Error shutting down tracer provider: %v", err)
				}
			}()
		}
	}

	// --- Order store ---
	orderRepo, err := repositories.OpenOrderRepository(cfg.OrderStore, cfg.OrdersFile, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open order store: %v", err)
	}

	// --- RabbitMQ (optional) ---
	publisher, mqClient := newPublisher(cfg)
	if mqClient != nil {
		defer mqClient.Close()
	}
	events := "disabled"
	if mqClient != nil {
		events = "connected"
	}

	// --- Services ---
	client := atlantic.NewClient(atlantic.Config{
		BaseURL: cfg.AtlanticBase,
		APIKey:  cfg.AtlanticKey,
		Timeout: cfg.UpstreamTimeout,
	})
	catalogService := services.NewCatalogService(client, cache.New(cfg.PriceListTTL, 4), services.CatalogConfig{
		PriceListType: cfg.PriceListType,
		ProfitPercent: cfg.ProfitPercent,
	})
	exchange := ""
	if mqClient != nil {
		exchange = mqClient.Exchange()
	}
	depositService := services.NewDepositService(client, orderRepo, publisher, clock.NewSystem(), services.DepositConfig{
		MinimumDeposit: cfg.DepositMinimum,
		OrderTTL:       cfg.OrderTTL,
		EventExchange:  exchange,
	})
	authService := services.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret)
	if !authService.Enabled() {
		log.Println("ADMIN_PASSWORD_HASH is not set, admin endpoints are disabled")
	}

	app := server.NewApp(server.Deps{
		Catalog:    catalogService,
		Deposits:   depositService,
		Auth:       authService,
		AllowedIPs: cfg.AllowedIPs,
		Events:     events,
	})

	// --- Order event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			if err := mqClient.ConsumeOrderEvents(rabbitmq.LogOrderEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Server running on http://localhost%s (PORT=%s)", cfg.Addr(), cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// newPublisher connects to RabbitMQ when a URL is configured. A failed
// connection is logged and events are not published.
func newPublisher(cfg config.Config) (services.EventPublisher, *rabbitmq.Client) {
	if cfg.RabbitMQURL == "" {
		return nil, nil
	}
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Order events disabled: %v", err)
		return nil, nil
	}
	return mqClient, mqClient
}
