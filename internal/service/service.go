package service

import (
	"context"
	"time"

	"helpconnect/internal/config"
	"helpconnect/internal/repository"
	"helpconnect/internal/session"
	"helpconnect/internal/storage"
)

// TxRunner runs fn against repositories bound to a single transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error
}

type Service struct {
	Auth        AuthService
	HelpRequest HelpRequestService
	Message     MessageService
	Stats       StatsService
	Seed        SeedService
}

func NewService(rep *repository.Repository, sessions session.Store, tokens *session.TokenCodec, storage storage.Storage, cfg *config.Config) *Service {
	validate := NewValidator()

	return &Service{
		Auth:        NewAuthService(rep.User, sessions, tokens, validate, cfg),
		HelpRequest: NewHelpRequestService(rep.HelpRequest, rep.Attachment, storage, validate, cfg),
		Message:     NewMessageService(rep.Message, rep, validate),
		Stats:       NewStatsService(rep.Stats),
		Seed:        NewSeedService(rep.Stats, rep),
	}
}

type clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}
