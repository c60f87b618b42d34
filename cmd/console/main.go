package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"roomadmin/internal/backend"
	"roomadmin/internal/config"
	httpx "roomadmin/internal/http"
	"roomadmin/internal/logging"
	"roomadmin/internal/services/auth"
	"roomadmin/internal/services/dashboard"
	"roomadmin/internal/services/reports"
	"roomadmin/internal/services/users"
	"roomadmin/internal/services/verification"
	"roomadmin/internal/services/withdrawals"
	"roomadmin/internal/session"
	"roomadmin/internal/views"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.App.LogLevel, cfg.App.Env)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Credential store: Redis when configured, process memory otherwise
	var store session.Store
	if cfg.Redis.Addr != "" {
		rdb, err := session.DialRedis(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.ConnectTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("session store unavailable")
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.Session.TTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("sessions stored in redis")
	} else {
		store = session.NewMemoryStore()
		log.Warn().Msg("REDIS_ADDR not set, sessions are kept in memory")
	}
	gate := session.NewGate(store)

	rend, err := views.New()
	if err != nil {
		log.Fatal().Err(err).Msg("templates failed to parse")
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.TimeoutSec)

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:              cfg,
		Logger:              logger,
		Views:               rend,
		Gate:                gate,
		AuthService:         auth.NewService(client, gate),
		DashboardService:    dashboard.NewService(client),
		ReportService:       reports.NewService(client),
		UserService:         users.NewService(client),
		WithdrawalService:   withdrawals.NewService(client),
		VerificationService: verification.NewService(client),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("backend", cfg.Backend.BaseURL).Msgf("admin console listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
