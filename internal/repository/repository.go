package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"helpconnect/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	SetOnline(ctx context.Context, userID int64, online bool) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type HelpRequestRepository interface {
	Create(ctx context.Context, request *models.HelpRequest) error
	GetByID(ctx context.Context, requestID int64) (*models.HelpRequest, error)
	List(ctx context.Context, filter models.HelpRequestFilter) ([]models.HelpRequest, error)
	ListRecent(ctx context.Context, limit int) ([]models.HelpRequest, error)
	UpdateStatus(ctx context.Context, requestID int64, status string, at time.Time) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, messageID int64) (*models.Message, error)
	ListByHelpRequest(ctx context.Context, requestID int64) ([]models.Message, error)
	MarkRead(ctx context.Context, messageID, receiverID int64) error
}

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *models.Attachment) error
	ListByHelpRequest(ctx context.Context, requestID int64) ([]models.Attachment, error)
}

type StatsRepository interface {
	CountUsers(ctx context.Context) (int, error)
	Counts(ctx context.Context) (*models.Stats, error)
}

// Repository groups the table repositories. Built from a *sqlx.DB it can open
// transactions; the copy handed to WithTx callbacks runs on the transaction.
type Repository struct {
	db *sqlx.DB

	User        UserRepository
	HelpRequest HelpRequestRepository
	Message     MessageRepository
	Attachment  AttachmentRepository
	Stats       StatsRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	repo := build(db)
	repo.db = db
	return repo
}

func build(ext sqlx.ExtContext) *Repository {
	return &Repository{
		User:        NewUserRepository(ext),
		HelpRequest: NewHelpRequestRepository(ext),
		Message:     NewMessageRepository(ext),
		Attachment:  NewAttachmentRepository(ext),
		Stats:       NewStatsRepository(ext),
	}
}

// WithTx runs fn inside a single transaction, rolling back if fn fails.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fmt.Errorf("repository is not bound to a database")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(build(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
