package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"helpconnect/internal/config"
	"helpconnect/internal/database"
	"helpconnect/internal/repository"
	"helpconnect/internal/service"
	"helpconnect/internal/session"
	"helpconnect/internal/storage"
)

type App struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service

	closers []func() error
}

// New connects every backing service and wires the repositories and
// services on top of them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	a := &App{DB: db, closers: []func() error{db.CloseDB}}

	sessions, err := newSessionStore(ctx, cfg.Session)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("session store: %w", err)
	}
	if closer, ok := sessions.(interface{ Close() error }); ok {
		a.closers = append(a.closers, closer.Close)
	}

	var attachments storage.Storage
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			logrus.WithError(err).Warn("object storage unavailable, attachments disabled")
		} else {
			attachments = minioClient
		}
	}

	a.Repo = repository.NewRepository(db.DB)
	a.Services = service.NewService(a.Repo, sessions, session.NewTokenCodec(cfg.Session.SecretKey), attachments, cfg)

	return a, nil
}

func newSessionStore(ctx context.Context, cfg config.Session) (session.Store, error) {
	switch cfg.Backend {
	case "memory", "":
		logrus.Info("using in-memory session store")
		return session.NewMemoryStore(cfg.TTL), nil
	case "redis":
		store := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.TTL)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		logrus.WithField("addr", cfg.RedisAddr).Info("using redis session store")
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported session backend %q", cfg.Backend)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logrus.WithError(err).Warn("failed to close resource")
		}
	}
}
