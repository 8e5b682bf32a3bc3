package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"helpconnect/internal/models"
)

const (
	queryInsertAttachment = `INSERT INTO attachments (help_request_id, object_name, url, file_name, content_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	querySelectAttachments = `SELECT id, help_request_id, object_name, url, file_name, content_type, size, created_at
		FROM attachments WHERE help_request_id = ?
		ORDER BY created_at, id`
)

type attachmentRepository struct {
	db sqlx.ExtContext
}

func NewAttachmentRepository(db sqlx.ExtContext) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(queryInsertAttachment),
		attachment.HelpRequestID,
		attachment.ObjectName,
		attachment.URL,
		attachment.FileName,
		attachment.ContentType,
		attachment.Size,
		attachment.CreatedAt,
	).Scan(&attachment.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("help request %d: %w", attachment.HelpRequestID, ErrForeignKey)
		}
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	return nil
}

func (r *attachmentRepository) ListByHelpRequest(ctx context.Context, requestID int64) ([]models.Attachment, error) {
	attachments := []models.Attachment{}
	if err := sqlx.SelectContext(ctx, r.db, &attachments, r.db.Rebind(querySelectAttachments), requestID); err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	return attachments, nil
}
