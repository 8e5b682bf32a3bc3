package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"helpconnect/internal/config"
	"helpconnect/internal/models"
	"helpconnect/internal/repository"
	"helpconnect/internal/storage"
)

const (
	DefaultRecentLimit = 5
	MaxRecentLimit     = 100
)

type CreateHelpRequestInput struct {
	AuthorID    int64  `json:"-" validate:"required"`
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,max=50"`
}

type AttachmentUpload struct {
	FileName string
	Size     int64
	File     io.Reader
}

type HelpRequestService interface {
	CreateHelpRequest(ctx context.Context, input CreateHelpRequestInput) (*models.HelpRequest, error)
	ListHelpRequests(ctx context.Context, filter models.HelpRequestFilter) ([]models.HelpRequest, error)
	GetHelpRequest(ctx context.Context, requestID int64) (*models.HelpRequest, error)
	ListRecent(ctx context.Context, limit int) ([]models.HelpRequest, error)
	AddAttachment(ctx context.Context, userID, requestID int64, upload AttachmentUpload) (*models.Attachment, error)
	ListAttachments(ctx context.Context, requestID int64) ([]models.Attachment, error)
}

type helpRequestService struct {
	requestRepo    repository.HelpRequestRepository
	attachmentRepo repository.AttachmentRepository
	storage        storage.Storage
	validate       *validator.Validate
	maxUploadSize  int64
	now            clock
}

func NewHelpRequestService(requestRepo repository.HelpRequestRepository, attachmentRepo repository.AttachmentRepository, storage storage.Storage, validate *validator.Validate, cfg *config.Config) HelpRequestService {
	return &helpRequestService{
		requestRepo:    requestRepo,
		attachmentRepo: attachmentRepo,
		storage:        storage,
		validate:       validate,
		maxUploadSize:  cfg.MaxUploadSize,
		now:            utcNow,
	}
}

func (h *helpRequestService) CreateHelpRequest(ctx context.Context, input CreateHelpRequestInput) (*models.HelpRequest, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)

	if err := validateStruct(h.validate, input); err != nil {
		return nil, err
	}

	request := &models.HelpRequest{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      models.StatusPending,
		AuthorID:    input.AuthorID,
		CreatedAt:   h.now(),
	}

	if err := h.requestRepo.Create(ctx, request); err != nil {
		return nil, storeError("create help request", err)
	}

	logrus.WithFields(logrus.Fields{
		"help_request_id": request.ID,
		"author_id":       request.AuthorID,
		"category":        request.Category,
	}).Info("help request created")

	return request, nil
}

// ListHelpRequests returns requests newest first. Empty filter fields match
// everything; unknown values simply match nothing.
func (h *helpRequestService) ListHelpRequests(ctx context.Context, filter models.HelpRequestFilter) ([]models.HelpRequest, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Status = strings.TrimSpace(filter.Status)

	requests, err := h.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError("list help requests", err)
	}
	return requests, nil
}

func (h *helpRequestService) GetHelpRequest(ctx context.Context, requestID int64) (*models.HelpRequest, error) {
	request, err := h.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, storeError("get help request", err)
	}
	return request, nil
}

func (h *helpRequestService) ListRecent(ctx context.Context, limit int) ([]models.HelpRequest, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	requests, err := h.requestRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, storeError("list recent help requests", err)
	}
	return requests, nil
}

// AddAttachment stores an image for a help request. Only the author may
// attach files; the uploaded object is removed again if the row cannot be saved.
func (h *helpRequestService) AddAttachment(ctx context.Context, userID, requestID int64, upload AttachmentUpload) (*models.Attachment, error) {
	if h.storage == nil {
		return nil, fmt.Errorf("%w: attachment storage is not configured", ErrOperationFailed)
	}

	upload.FileName = strings.TrimSpace(upload.FileName)
	switch {
	case upload.FileName == "" || upload.File == nil:
		return nil, validationf("file is required")
	case upload.Size <= 0:
		return nil, validationf("file is empty")
	case upload.Size > h.maxUploadSize:
		return nil, validationf("file exceeds %d bytes", h.maxUploadSize)
	case !storage.IsImage(upload.FileName):
		return nil, validationf("only image files can be attached")
	}

	request, err := h.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, storeError("add attachment", err)
	}
	if request.AuthorID != userID {
		return nil, fmt.Errorf("%w: only the author can attach files", ErrForbidden)
	}

	object, err := h.storage.Upload(ctx, requestID, upload.FileName, upload.File, upload.Size)
	if err != nil {
		logrus.WithError(err).WithField("help_request_id", requestID).Error("attachment upload failed")
		return nil, fmt.Errorf("%w: upload attachment", ErrOperationFailed)
	}

	attachment := &models.Attachment{
		HelpRequestID: requestID,
		ObjectName:    object.Name,
		URL:           object.URL,
		FileName:      upload.FileName,
		ContentType:   object.ContentType,
		Size:          upload.Size,
		CreatedAt:     h.now(),
	}

	if err := h.attachmentRepo.Create(ctx, attachment); err != nil {
		if delErr := h.storage.Delete(ctx, object.Name); delErr != nil {
			logrus.WithError(delErr).WithField("object", object.Name).Warn("failed to remove orphaned attachment")
		}
		return nil, storeError("add attachment", err)
	}

	return attachment, nil
}

// ListAttachments returns the attachments of a request with fresh download links.
func (h *helpRequestService) ListAttachments(ctx context.Context, requestID int64) ([]models.Attachment, error) {
	if _, err := h.requestRepo.GetByID(ctx, requestID); err != nil {
		return nil, storeError("list attachments", err)
	}

	attachments, err := h.attachmentRepo.ListByHelpRequest(ctx, requestID)
	if err != nil {
		return nil, storeError("list attachments", err)
	}

	if h.storage == nil {
		return attachments, nil
	}
	for i := range attachments {
		signed, err := h.storage.PresignedURL(ctx, attachments[i].ObjectName)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logrus.WithError(err).WithField("object", attachments[i].ObjectName).Warn("keeping stored attachment url")
			}
			continue
		}
		attachments[i].URL = signed
	}

	return attachments, nil
}
