package main

import (
	"log"
	"time"

	"checkout-orchestrator/internal/core/auth"
	"checkout-orchestrator/internal/core/cache"
	"checkout-orchestrator/internal/core/config"
	"checkout-orchestrator/internal/core/logger"
	"checkout-orchestrator/internal/core/server"
	cartadapter "checkout-orchestrator/internal/features/cart/adapters"
	cartservice "checkout-orchestrator/internal/features/cart/service"
	checkoutadapter "checkout-orchestrator/internal/features/checkout/adapters"
	checkouthandler "checkout-orchestrator/internal/features/checkout/handler"
	checkoutservice "checkout-orchestrator/internal/features/checkout/service"
	countershandler "checkout-orchestrator/internal/features/counters/handler"
	countersservice "checkout-orchestrator/internal/features/counters/service"
	deliveryadapter "checkout-orchestrator/internal/features/delivery/adapters"
	deliveryhandler "checkout-orchestrator/internal/features/delivery/handler"
	deliveryservice "checkout-orchestrator/internal/features/delivery/service"
	paymentadapter "checkout-orchestrator/internal/features/payment/adapters"
	paymenthandler "checkout-orchestrator/internal/features/payment/handler"
	paymentservice "checkout-orchestrator/internal/features/payment/service"

	"go.uber.org/zap"
)

const backendTimeout = 10 * time.Second

// badge counts stay fresh for a short window between reads
const countersTTL = 30 * time.Second

// @title Checkout Orchestrator API
// @version 1.0
// @description Storefront checkout core: cart snapshots, CDEK delivery resolution, order submission and Tochka payment sessions.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisCache.Close()

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)

	// Cart
	cartAdapter := cartadapter.NewCommerceAdapter(cfg.Commerce.BaseURL, backendTimeout)
	cartSvc := cartservice.NewCartService(cartAdapter)

	// Delivery
	cdekAdapter := deliveryadapter.NewCdekAdapter(cfg.Commerce.BaseURL, backendTimeout)
	deliverySvc := deliveryservice.NewDeliveryService(cdekAdapter, deliveryservice.Options{
		FallbackCost:         float64(cfg.Delivery.FallbackCost),
		Debounce:             cfg.Delivery.Debounce(),
		CarrierRatePerSecond: cfg.Delivery.CarrierRatePerSecond,
	})
	deliveryHdl := deliveryhandler.NewDeliveryHandler(deliverySvc)

	// Payment
	tochkaAdapter := paymentadapter.NewTochkaAdapter(cfg.Commerce.BaseURL, backendTimeout)
	sessionStore := paymentadapter.NewCacheSessionStore(redisCache, cfg.Payment.SessionTTL())
	paymentSvc := paymentservice.NewPaymentService(tochkaAdapter, sessionStore)
	paymentSvc.TrackSettlements(paymentservice.NewWatcher(tochkaAdapter, sessionStore, paymentservice.WatchOptions{
		PollInterval:      cfg.Payment.PollInterval(),
		MaxAttempts:       cfg.Payment.MaxPollAttempts,
		AutoOpenDelay:     cfg.Payment.AutoOpenDelay(),
		PaidRedirectDelay: cfg.Payment.PaidRedirectDelay(),
	}))
	paymentHdl := paymenthandler.NewPaymentHandler(paymentSvc)

	// Checkout
	ordersAdapter := checkoutadapter.NewOrdersAdapter(cfg.Commerce.BaseURL, backendTimeout)
	orchestrator := checkoutservice.NewOrchestrator(cartSvc, ordersAdapter, paymentSvc)
	checkoutHdl := checkouthandler.NewCheckoutHandler(orchestrator)

	// Counters
	countersStore := countersservice.NewStore(cartAdapter, cartAdapter, countersTTL)
	countersHdl := countershandler.NewCountersHandler(countersStore)

	srv := server.New(cfg)

	requireAuth := auth.Middleware(verifier)

	// Public delivery lookups
	srv.App.Post("/api/delivery/calculate", deliveryHdl.Calculate)
	srv.App.Get("/api/delivery/cities", deliveryHdl.SearchCities)
	srv.App.Get("/api/delivery/pvz", deliveryHdl.ListPickupPoints)

	// Session restore works without authentication so a reloaded page can
	// render before the user is re-verified.
	srv.App.Get("/api/payments/:id/session", paymentHdl.GetSession)
	srv.App.Post("/api/payments/:id/opened", paymentHdl.MarkOpened)

	// Authenticated checkout flow
	srv.App.Post("/api/checkout", requireAuth, checkoutHdl.Submit)
	srv.App.Get("/api/orders/:id", requireAuth, checkoutHdl.GetOrder)
	srv.App.Post("/api/payments/session", requireAuth, paymentHdl.CreateSession)
	srv.App.Get("/api/payments/:id/status", requireAuth, paymentHdl.GetStatus)
	srv.App.Get("/api/counters", requireAuth, countersHdl.GetCounts)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
