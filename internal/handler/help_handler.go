package handlers

import (
	"net/http"
	"strconv"
	"time"

	"helpconnect/internal/middleware"
	"helpconnect/internal/models"
	"helpconnect/internal/service"
	"helpconnect/internal/timeago"
)

type HelpRequestResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	AuthorID    int64      `json:"authorId"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedAgo  string     `json:"createdAgo"`
	AcceptedAt  *time.Time `json:"acceptedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type CreateHelpRequestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type AttachmentResponse struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *Handlers) helpRequestResponse(request models.HelpRequest) HelpRequestResponse {
	resp := HelpRequestResponse{
		ID:          request.ID,
		Title:       request.Title,
		Description: request.Description,
		Category:    request.Category,
		Status:      request.Status,
		AuthorID:    request.AuthorID,
		CreatedAt:   request.CreatedAt,
		CreatedAgo:  timeago.Since(request.CreatedAt, h.Now()),
	}
	if request.AcceptedAt.Valid {
		resp.AcceptedAt = &request.AcceptedAt.Time
	}
	if request.CompletedAt.Valid {
		resp.CompletedAt = &request.CompletedAt.Time
	}
	return resp
}

func (h *Handlers) helpRequestList(requests []models.HelpRequest) []HelpRequestResponse {
	out := make([]HelpRequestResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, h.helpRequestResponse(request))
	}
	return out
}

func (h *Handlers) CreateHelpRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req CreateHelpRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	request, err := h.HelpRequestService.CreateHelpRequest(r.Context(), service.CreateHelpRequestInput{
		AuthorID:    user.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, h.helpRequestResponse(*request), http.StatusCreated)
}

func (h *Handlers) ListHelpRequests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	requests, err := h.HelpRequestService.ListHelpRequests(r.Context(), models.HelpRequestFilter{
		Category: query.Get("category"),
		Status:   query.Get("status"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, h.helpRequestList(requests), http.StatusOK)
}

func (h *Handlers) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, "limit must be a number", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	requests, err := h.HelpRequestService.ListRecent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, h.helpRequestList(requests), http.StatusOK)
}

func (h *Handlers) GetHelpRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, "invalid help request id", http.StatusBadRequest)
		return
	}

	request, err := h.HelpRequestService.GetHelpRequest(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, h.helpRequestResponse(*request), http.StatusOK)
}

func attachmentResponse(attachment models.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          attachment.ID,
		URL:         attachment.URL,
		FileName:    attachment.FileName,
		ContentType: attachment.ContentType,
		Size:        attachment.Size,
		CreatedAt:   attachment.CreatedAt,
	}
}

func (h *Handlers) AddAttachment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeError(w, "invalid help request id", http.StatusBadRequest)
		return
	}

	// allow multipart overhead on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	attachment, err := h.HelpRequestService.AddAttachment(r.Context(), user.ID, id, service.AttachmentUpload{
		FileName: header.Filename,
		Size:     header.Size,
		File:     file,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, attachmentResponse(*attachment), http.StatusCreated)
}

func (h *Handlers) ListAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, "invalid help request id", http.StatusBadRequest)
		return
	}

	attachments, err := h.HelpRequestService.ListAttachments(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		out = append(out, attachmentResponse(attachment))
	}
	writeSuccess(w, out, http.StatusOK)
}
