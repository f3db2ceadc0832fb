package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "sf-dashboard-pos/checkout-svc/internal/api/http"
	"sf-dashboard-pos/checkout-svc/internal/service"
	"sf-dashboard-pos/checkout-svc/internal/storage"
	"sf-dashboard-pos/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	backend := newBackendClient(cfg.Backend)

	var cache service.SummaryCache
	if cfg.Redis.Enabled() {
		rdb := config.MustInitRedis(cfg.Redis)
		defer rdb.Close()
		cache = storage.NewSummaryCache(rdb, cfg.Redis.CacheTTL)
	} else {
		log.Println("REDIS_HOST not set, cart summary cache disabled")
	}

	var journal service.SaleJournal
	if cfg.Postgres.Enabled() {
		db := config.MustInitPostgres(cfg.Postgres)
		defer db.Close()
		saleJournal := storage.NewSaleJournal(db)
		if err := saleJournal.EnsureSchema(); err != nil {
			log.Fatal(err)
		}
		journal = saleJournal
	} else {
		log.Println("DB_HOST not set, sale journal disabled")
	}

	var publisher service.EventPublisher
	if cfg.Kafka.Enabled() {
		writer := config.NewKafkaWriter(cfg.Kafka)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	} else {
		log.Println("KAFKA_BROKER not set, checkout events disabled")
	}

	checkout, router := newApp(cfg, backend, cache, journal, publisher)
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Checkout Service starting on %s", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down checkout service...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	checkout.Shutdown()
	log.Println("Checkout service stopped")
}

func newBackendClient(cfg config.BackendConfig) *storage.BackendClient {
	return storage.NewBackendClient(storage.BackendConfig{
		BaseURL:     cfg.URL,
		Token:       cfg.Token,
		MaxFailures: cfg.MaxFailures,
	}, &http.Client{Timeout: cfg.Timeout})
}

// newApp wires the checkout service and its HTTP router. cache, journal and
// publisher may be nil.
func newApp(cfg *config.Config, backend *storage.BackendClient, cache service.SummaryCache,
	journal service.SaleJournal, publisher service.EventPublisher) (*service.CheckoutService, http.Handler) {
	carts := service.NewCartService(backend, backend, cache)
	saga := service.NewOrderSaga(backend, journal, publisher)
	qr := service.DefaultQRGenerator{BaseURL: cfg.Payment.ReceiptBaseURL}
	checkout := service.NewCheckoutService(carts, backend, saga, journal, qr, cfg.Payment.AuthorizationDelay)

	handler := httpapi.NewHandler(checkout, cfg.HTTP.RequestTimeout)
	return checkout, httpapi.NewRouter(handler, cfg.HTTP.AllowedOrigins)
}
