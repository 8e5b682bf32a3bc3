package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"helpconnect/internal/models"
	"helpconnect/internal/repository"
)

type SendMessageInput struct {
	SenderID      int64  `json:"-" validate:"required"`
	ReceiverID    int64  `json:"receiverId" validate:"required,nefield=SenderID"`
	Content       string `json:"content" validate:"required"`
	HelpRequestID *int64 `json:"helpRequestId,omitempty"`
}

type MessageService interface {
	SendMessage(ctx context.Context, input SendMessageInput) (*models.Message, error)
	ListThread(ctx context.Context, requestID int64) ([]models.Message, error)
	MarkRead(ctx context.Context, messageID, readerID int64) error
}

type messageService struct {
	messageRepo repository.MessageRepository
	tx          TxRunner
	validate    *validator.Validate
	now         clock
}

func NewMessageService(messageRepo repository.MessageRepository, tx TxRunner, validate *validator.Validate) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		tx:          tx,
		validate:    validate,
		now:         utcNow,
	}
}

func (m *messageService) SendMessage(ctx context.Context, input SendMessageInput) (*models.Message, error) {
	input.Content = strings.TrimSpace(input.Content)

	if err := validateStruct(m.validate, input); err != nil {
		return nil, err
	}

	message := &models.Message{
		Content:    input.Content,
		SenderID:   input.SenderID,
		ReceiverID: input.ReceiverID,
		CreatedAt:  m.now(),
	}
	if input.HelpRequestID != nil {
		message.HelpRequestID = sql.NullInt64{Int64: *input.HelpRequestID, Valid: true}
	}

	err := m.tx.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.User.GetByID(ctx, input.ReceiverID); err != nil {
			return fmt.Errorf("receiver: %w", err)
		}
		if message.HelpRequestID.Valid {
			if _, err := tx.HelpRequest.GetByID(ctx, message.HelpRequestID.Int64); err != nil {
				return err
			}
		}
		return tx.Message.Create(ctx, message)
	})
	if err != nil {
		return nil, storeError("send message", err)
	}

	logrus.WithFields(logrus.Fields{
		"message_id":  message.ID,
		"sender_id":   message.SenderID,
		"receiver_id": message.ReceiverID,
	}).Debug("message sent")

	return message, nil
}

// ListThread returns the messages of a help request, oldest first.
func (m *messageService) ListThread(ctx context.Context, requestID int64) ([]models.Message, error) {
	messages, err := m.messageRepo.ListByHelpRequest(ctx, requestID)
	if err != nil {
		return nil, storeError("list thread", err)
	}
	return messages, nil
}

// MarkRead is allowed for the receiver only. Marking twice is not an error.
func (m *messageService) MarkRead(ctx context.Context, messageID, readerID int64) error {
	err := m.tx.WithTx(ctx, func(tx *repository.Repository) error {
		message, err := tx.Message.GetByID(ctx, messageID)
		if err != nil {
			return err
		}
		if message.ReceiverID != readerID {
			return fmt.Errorf("%w: only the receiver can mark a message as read", ErrForbidden)
		}
		return tx.Message.MarkRead(ctx, messageID, readerID)
	})
	if errors.Is(err, ErrForbidden) {
		return err
	}
	if err != nil {
		return storeError("mark message read", err)
	}
	return nil
}
