package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bakery-orders/internal/config"
	"bakery-orders/internal/db"
	"bakery-orders/internal/httpserver"
	"bakery-orders/internal/payment"
	orderrepo "bakery-orders/internal/repository/order"
	productrepo "bakery-orders/internal/repository/product"
	"bakery-orders/internal/seed"
	catalogsvc "bakery-orders/internal/service/catalog"
	ordersvc "bakery-orders/internal/service/order"
	"bakery-orders/internal/sheets"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	// The catalog is code-defined; wipe and reinstall it on every boot so
	// stale rows never survive a restart.
	if err := seed.Reset(ctx, dbpool); err != nil {
		logger.Fatalf("reset catalog: %v", err)
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	catalogService := catalogsvc.New(productRepo)

	var checkout ordersvc.CheckoutProvider
	if cfg.StripeEnabled && cfg.StripeSecret != "" {
		checkout = payment.NewStripeCheckout(cfg.StripeSecret, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
		logger.Printf("stripe checkout enabled")
	}

	var notifier ordersvc.Notifier
	if cfg.SheetsEnabled() {
		appender, err := sheets.NewAppender(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsFile)
		if err != nil {
			// Best-effort collaborator: a broken sheet config must not keep
			// the API from serving orders.
			logger.Printf("sheets logging disabled: %v", err)
		} else {
			notifier = appender
			logger.Printf("sheets logging enabled")
		}
	}

	orderService := ordersvc.New(productRepo, orderRepo, checkout, notifier, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:  catalogService,
		OrderSvc:    orderService,
		AdminToken:  cfg.AdminToken,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
