package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/avelez-dev/bookline/internal/handlers"
	"github.com/avelez-dev/bookline/internal/outbox"
	"github.com/avelez-dev/bookline/internal/storage"
	"github.com/avelez-dev/bookline/libs/config"
	"github.com/avelez-dev/bookline/libs/db"
	"github.com/avelez-dev/bookline/libs/httpx"
	"github.com/avelez-dev/bookline/libs/kafkax"
	otelx "github.com/avelez-dev/bookline/libs/otel"
	"github.com/avelez-dev/bookline/libs/runtime"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "booking-service")
	port, err := config.Port("PORT", "8083")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL, db.Options{
		MaxConns: int32(config.Int("DB_MAX_CONNS", 10)),
		MinConns: int32(config.Int("DB_MIN_CONNS", 2)),
	})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	vendorRepo := storage.NewVendorRepository(pool)
	bookingRepo := storage.NewBookingRepository(pool)
	outboxRepo := outbox.NewRepository(pool)

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: config.Seconds("OUTBOX_POLL_SECONDS", 2*time.Second),
		BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
	})
	go outboxPublisher.Run(ctx)

	handler := handlers.New(vendorRepo, bookingRepo, outboxRepo, logger)

	// Public routes take a rate limiter; Redis-backed when REDIS_ADDR is set
	// so the window is shared across replicas, in-memory otherwise.
	var publicLimit httpx.Middleware
	rateLimit := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if redisAddr := strings.TrimSpace(config.String("REDIS_ADDR", "")); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		publicLimit = httpx.NewRedisRateLimiter(rdb, rateLimit, time.Minute, service).Middleware(logger, true)
	} else {
		publicLimit = httpx.NewRateLimiter(rateLimit, time.Minute).Middleware()
	}

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	mux.Handle("/api/v1/public/slots", httpx.Chain(http.HandlerFunc(handler.Slots), publicLimit))
	mux.Handle("/api/v1/public/book", httpx.Chain(http.HandlerFunc(handler.Book), publicLimit))
	mux.HandleFunc("/api/v1/vendor/profile", handler.Profile)
	mux.HandleFunc("/api/v1/services", handler.Services)
	mux.HandleFunc("/api/v1/availability/weekly", handler.WeeklyAvailability)
	mux.HandleFunc("/api/v1/availability/exceptions", handler.DateExceptions)
	mux.HandleFunc("/api/v1/bookings", handler.ListBookings)
	mux.HandleFunc("/api/v1/bookings/cancel", handler.CancelBooking)

	httpHandler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: strings.Split(config.String("CORS_ALLOWED_ORIGINS", "*"), ","),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", "X-Vendor-Id", "X-Request-Id"},
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(15*time.Second),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
