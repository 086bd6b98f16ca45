package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/avdeenkov/marketplace/internal/config"
	"github.com/avdeenkov/marketplace/internal/events"
	"github.com/avdeenkov/marketplace/internal/httpserver"
	authmw "github.com/avdeenkov/marketplace/internal/middleware/auth"
	"github.com/avdeenkov/marketplace/internal/models"
	"github.com/avdeenkov/marketplace/internal/repo"
	"github.com/avdeenkov/marketplace/internal/search"
	"github.com/avdeenkov/marketplace/internal/service"
	pkgdb "github.com/avdeenkov/marketplace/pkg/db"
	"github.com/avdeenkov/marketplace/pkg/logging"
	loggingmw "github.com/avdeenkov/marketplace/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	esClient, err := search.NewClient(cfg)
	if err != nil {
		logger.Warn("elasticsearch unavailable, falling back to SQL search", "error", err)
	}

	r := repo.New(db)
	authSvc := &service.AuthService{Repo: r, AccessSecret: cfg.JWTAccessSecret, RefreshSecret: cfg.JWTRefreshSecret}
	catalogSvc := &service.CatalogService{Repo: r, Producer: producer, Search: esClient}
	categorySvc := &service.CategoryService{Repo: r}
	cartSvc := &service.CartService{Repo: r}
	orderSvc := &service.OrderService{Repo: r, Producer: producer}
	shippingSvc := &service.ShippingService{Repo: r}
	notificationSvc := &service.NotificationService{Repo: r}
	adminSvc := &service.AdminService{Repo: r}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Auth:          authmw.New(r, cfg.JWTAccessSecret),
		AuthHandler:   &httpserver.AuthHTTP{Svc: authSvc},
		Products:      &httpserver.ProductHTTP{Svc: catalogSvc},
		Categories:    &httpserver.CategoryHTTP{Svc: categorySvc},
		Cart:          &httpserver.CartHTTP{Svc: cartSvc},
		Orders:        &httpserver.OrderHTTP{Svc: orderSvc},
		Shipping:      &httpserver.ShippingHTTP{Svc: shippingSvc},
		Notifications: &httpserver.NotificationHTTP{Svc: notificationSvc},
		Admin:         &httpserver.AdminHTTP{Svc: adminSvc},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("stopped")
}
