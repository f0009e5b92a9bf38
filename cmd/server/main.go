package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restopos/internal/config"
	"restopos/internal/db"
	"restopos/internal/logger"
	"restopos/internal/metrics"
	"restopos/internal/middleware"
	"restopos/internal/mq"
	"restopos/internal/order"
	"restopos/internal/report"
	"restopos/internal/session"
	"restopos/internal/table"
	"restopos/internal/transport"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
	dialBrokerFunc  = func(url, exchange string) (mq.Publisher, error) { return mq.Dial(url, exchange) }
)

type app struct {
	handler  http.Handler
	sessions session.Service
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	log := logger.L()

	database := initDBFunc(cfg)
	defer database.Close()

	publisher := newPublisher(cfg)
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newServer(ctx, cfg, database, publisher)
	go a.sessions.RunSweeper(ctx, cfg.SessionSweepInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("POS API listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newPublisher dials the broker when one is configured. The API keeps
// serving without events when the broker is unreachable.
func newPublisher(cfg *config.Config) mq.Publisher {
	if cfg.AMQPURL == "" {
		logger.L().Info("AMQP_URL not set, order events disabled")
		return mq.NopPublisher{}
	}

	pub, err := dialBrokerFunc(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.L().Warn("broker unavailable, order events disabled", zap.Error(err))
		return mq.NopPublisher{}
	}

	logger.L().Info("publishing order events", zap.String("exchange", cfg.AMQPExchange))
	return pub
}

func newServer(ctx context.Context, cfg *config.Config, database *sql.DB, publisher mq.Publisher) *app {
	reg := metrics.NewRegistry()

	tableSvc := table.NewService(table.NewRepository(database))
	orderSvc := order.NewService(order.NewRepository(database, cfg.OrderNumberPrefix), publisher, reg)
	sessionSvc := session.NewService(session.NewRepository(database), cfg.SessionMaxAge, reg)
	reportSvc := report.NewService(report.NewRepository(database))

	api := transport.NewHandler(orderSvc, sessionSvc, tableSvc, reportSvc)
	limiter := middleware.NewRateLimiter(ctx, cfg.InternalSecretKey)

	checks := []healthCheck{
		{name: "database", check: database.PingContext},
	}
	if p, ok := publisher.(interface{ Ping() error }); ok {
		checks = append(checks, healthCheck{name: "broker", check: func(context.Context) error { return p.Ping() }})
	}

	router := setupRouter(api, reg, checks)

	var handler http.Handler = router
	handler = limiter.Middleware(handler)
	handler = middleware.AuthMiddleware(cfg.JWTSecret)(handler)
	handler = middleware.CORS(cfg.CORSOrigin)(handler)
	handler = timedMiddleware(reg)(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)

	return &app{handler: handler, sessions: sessionSvc}
}

type healthCheck struct {
	name  string
	check func(context.Context) error
}

func setupRouter(api *transport.Handler, reg *metrics.Registry, checks []healthCheck) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler(checks)).Methods(http.MethodGet)
	r.Handle("/metrics", reg.Handler()).Methods(http.MethodGet)

	api.Register(r)
	return r
}

func healthHandler(checks []healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				logger.FromCtx(r.Context()).Warn("health check failed",
					zap.String("check", c.name),
					zap.Error(err),
				)
				http.Error(w, c.name+" unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// timedMiddleware counts requests and accumulates their latency.
func timedMiddleware(reg *metrics.Registry) func(http.Handler) http.Handler {
	requests := reg.Counter("http_requests_total")
	latency := reg.Counter("http_request_duration_ms_total")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer := metrics.StartTimer()
			next.ServeHTTP(w, r)
			requests.Inc()
			latency.Add(uint64(timer.Duration().Milliseconds()))
		})
	}
}
