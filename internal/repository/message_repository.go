package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"helpconnect/internal/models"
)

const (
	queryInsertMessage = `INSERT INTO messages (content, sender_id, receiver_id, help_request_id, created_at, is_read)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`
	querySelectMessageByID = `SELECT id, content, sender_id, receiver_id, help_request_id, created_at, is_read
		FROM messages WHERE id = ?`
	querySelectThread = `SELECT id, content, sender_id, receiver_id, help_request_id, created_at, is_read
		FROM messages WHERE help_request_id = ?
		ORDER BY created_at ASC, id ASC`
	queryMarkMessageRead = `UPDATE messages SET is_read = ? WHERE id = ? AND receiver_id = ?`
)

type messageRepository struct {
	db sqlx.ExtContext
}

func NewMessageRepository(db sqlx.ExtContext) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(queryInsertMessage),
		message.Content,
		message.SenderID,
		message.ReceiverID,
		message.HelpRequestID,
		message.CreatedAt,
		message.IsRead,
	).Scan(&message.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("message references: %w", ErrForeignKey)
		}
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, messageID int64) (*models.Message, error) {
	var message models.Message

	err := sqlx.GetContext(ctx, r.db, &message, r.db.Rebind(querySelectMessageByID), messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %d: %w", messageID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return &message, nil
}

func (r *messageRepository) ListByHelpRequest(ctx context.Context, requestID int64) ([]models.Message, error) {
	messages := []models.Message{}
	if err := sqlx.SelectContext(ctx, r.db, &messages, r.db.Rebind(querySelectThread), requestID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

// MarkRead flags the message as read only when receiverID is its receiver.
func (r *messageRepository) MarkRead(ctx context.Context, messageID, receiverID int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(queryMarkMessageRead), true, messageID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to mark message as read: %w", err)
	}

	return expectAffected(result, fmt.Sprintf("message %d for receiver %d", messageID, receiverID))
}
