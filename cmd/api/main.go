package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"helpconnect/cmd/app"
	"helpconnect/internal/config"
	handlers "helpconnect/internal/handler"
	"helpconnect/internal/middleware"
)

func initLog(cfg config.Log) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetOutput(os.Stdout)
}

func initSentry(dsn string) bool {
	if dsn == "" {
		return false
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		AttachStacktrace: true,
	}); err != nil {
		logrus.WithError(err).Error("sentry init failed")
		return false
	}
	logrus.Info("initialized sentry")
	return true
}

func main() {
	var configFile string
	flag.StringVar(&configFile, "c", "", "[optional] path of a yaml configuration file")
	flag.Parse()

	cfg := config.LoadConfig(configFile)
	initLog(cfg.Log)

	if cfg.Session.SecretKey == "" {
		logrus.Fatal("SESSION_SECRET_KEY is not set")
	}

	if initSentry(cfg.SentryDSN) {
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to start application")
	}
	defer application.Close()

	if cfg.SeedOnStart {
		if _, err := application.Services.Seed.SeedIfEmpty(ctx); err != nil {
			logrus.WithError(err).Error("failed to seed database")
		}
	}

	h := handlers.NewHandlers(application.Services, application.DB, cfg)

	handlerChain := middleware.Chain(
		h.Router(),
		middleware.RecoveryMiddleware,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           handlerChain,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":   server.Addr,
			"driver": cfg.DB.Driver,
		}).Info("server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
