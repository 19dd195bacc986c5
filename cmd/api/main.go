package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"crmdesk/internal/app"
	"crmdesk/internal/config"
	"crmdesk/internal/database"
	"crmdesk/internal/logging"
	"crmdesk/internal/metrics"
	"crmdesk/internal/realtime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config load failed")
	}

	log := logging.New(cfg.LogLevel, cfg.IsProdLike())
	flush := logging.InitSentry(cfg.SentryDSN, cfg.AppEnv, log)
	defer flush()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("database migrate failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker := realtime.NewBroker(cfg.RedisURL, log)
	defer broker.Close()

	hub := realtime.NewHub(cfg.CorsAllowedOrigins, log)
	if err := hub.Run(ctx, broker); err != nil {
		log.WithError(err).Fatal("activity hub subscribe failed")
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: app.Handler(app.Deps{
			Config:  cfg,
			DB:      db,
			Log:     log,
			Metrics: metrics.New(),
			Broker:  broker,
			Hub:     hub,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "env": cfg.AppEnv}).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
