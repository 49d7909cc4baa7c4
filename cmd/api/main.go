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

	"github.com/joho/godotenv"
	"github.com/suPer8Hu/wholesale-platform/internal/bulkupload"
	"github.com/suPer8Hu/wholesale-platform/internal/cart"
	"github.com/suPer8Hu/wholesale-platform/internal/catalog"
	"github.com/suPer8Hu/wholesale-platform/internal/chat"
	"github.com/suPer8Hu/wholesale-platform/internal/checkout"
	"github.com/suPer8Hu/wholesale-platform/internal/config"
	"github.com/suPer8Hu/wholesale-platform/internal/db"
	"github.com/suPer8Hu/wholesale-platform/internal/faq"
	"github.com/suPer8Hu/wholesale-platform/internal/httpapi"
	"github.com/suPer8Hu/wholesale-platform/internal/httpapi/handlers"
	"github.com/suPer8Hu/wholesale-platform/internal/httpapi/middleware"
	"github.com/suPer8Hu/wholesale-platform/internal/inquiry"
	"github.com/suPer8Hu/wholesale-platform/internal/membership"
	"github.com/suPer8Hu/wholesale-platform/internal/multipay"
	"github.com/suPer8Hu/wholesale-platform/internal/notify"
	"github.com/suPer8Hu/wholesale-platform/internal/order"
	"github.com/suPer8Hu/wholesale-platform/internal/pricing"
	"github.com/suPer8Hu/wholesale-platform/internal/profile"
	"github.com/suPer8Hu/wholesale-platform/internal/quote"
	"github.com/suPer8Hu/wholesale-platform/internal/rfq"
	"github.com/suPer8Hu/wholesale-platform/internal/sharing"
	"github.com/suPer8Hu/wholesale-platform/internal/store/rabbitmq"
	"github.com/suPer8Hu/wholesale-platform/internal/store/redisstore"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[API] .env: %v", err)
	}
	cfg := config.Load()

	gdb, err := db.Connect(cfg.DBDSN, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("[API] db: %v", err)
	}
	if err := db.Prepare(gdb, cfg.Migrations, cfg.Seed); err != nil {
		log.Fatalf("[API] prepare schema: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// redis backs the catalog cache, share counters and rate limiting; all
	// three degrade to off when it is unreachable
	var (
		cache   catalog.Cache
		counter sharing.Counter
		limiter middleware.Limiter
	)
	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := rds.Ping(pingCtx); err != nil {
		log.Printf("[API] redis %s unavailable, running without cache and rate limits: %v", cfg.RedisAddr, err)
	} else {
		cache, counter, limiter = rds, rds, rds
	}
	cancel()

	// without rabbit the dispatcher delivers in-process
	var publisher notify.Publisher
	if pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue); err != nil {
		log.Printf("[API] rabbitmq unavailable, delivering notifications inline: %v", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	sender := notify.NewHTTPSender(cfg.NotifyAPIURL, cfg.NotifyAPIKey)
	dispatcher := notify.NewDispatcher(notify.NewRepo(gdb), sender, publisher, cfg.PublicBaseURL)

	catalogSvc := catalog.NewService(catalog.NewRepo(gdb), cache, cfg.CatalogCacheTTL)
	pricingSvc := pricing.NewService(gdb, pricing.NewRepo(gdb))
	membershipSvc := membership.NewService(gdb, membership.NewRepo(gdb))
	rfqRepo := rfq.NewRepo(gdb)
	orderRepo := order.NewRepo(gdb)
	orderSvc := order.NewService(gdb, orderRepo)
	quoteSvc := quote.NewService(gdb, quote.NewRepo(gdb), rfqRepo, orderRepo, dispatcher, cfg.QuoteDefaultDays)
	cartSvc := cart.NewService(cart.NewRepo(gdb), catalogSvc, pricingSvc, membershipSvc)

	deps := handlers.Deps{
		Catalog:    catalogSvc,
		Pricing:    pricingSvc,
		RFQ:        rfq.NewService(rfqRepo, catalogSvc),
		Profile:    profile.NewService(gdb),
		Checkout:   checkout.NewService(orderSvc, checkout.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.StripeCurrency), cartSvc, membershipSvc, cfg.StripeCurrency),
		Quotes:     quoteSvc,
		Chat:       chat.NewService(gdb, chat.NewRepo(gdb), dispatcher),
		Inquiries:  inquiry.NewService(gdb, sender, notify.SMSLogger{}),
		BulkUpload: bulkupload.NewService(catalogSvc),
		FAQ:        faq.NewService(faq.NewRepo(gdb)),
		Sharing:    sharing.NewService(cfg.PublicBaseURL, counter),
		Payments:   multipay.NewService(multipay.DefaultRegistry()),
		Membership: membershipSvc,
		Cart:       cartSvc,
	}

	go quote.RunSweeper(ctx, quoteSvc, cfg.QuoteSweepInterval)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(gdb, cfg, deps, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[API] listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[API] listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[API] shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] shutdown: %v", err)
	}
}
