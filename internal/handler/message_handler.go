package handlers

import (
	"net/http"
	"time"

	"helpconnect/internal/middleware"
	"helpconnect/internal/models"
	"helpconnect/internal/service"
	"helpconnect/internal/timeago"
)

type SendMessageRequest struct {
	ReceiverID    int64  `json:"receiverId"`
	Content       string `json:"content"`
	HelpRequestID *int64 `json:"helpRequestId,omitempty"`
}

type MessageResponse struct {
	ID            int64     `json:"id"`
	Content       string    `json:"content"`
	SenderID      int64     `json:"senderId"`
	ReceiverID    int64     `json:"receiverId"`
	HelpRequestID *int64    `json:"helpRequestId,omitempty"`
	IsRead        bool      `json:"isRead"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedAgo    string    `json:"createdAgo"`
}

func (h *Handlers) messageResponse(message models.Message) MessageResponse {
	resp := MessageResponse{
		ID:         message.ID,
		Content:    message.Content,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		IsRead:     message.IsRead,
		CreatedAt:  message.CreatedAt,
		CreatedAgo: timeago.Since(message.CreatedAt, h.Now()),
	}
	if message.HelpRequestID.Valid {
		id := message.HelpRequestID.Int64
		resp.HelpRequestID = &id
	}
	return resp
}

func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	message, err := h.MessageService.SendMessage(r.Context(), service.SendMessageInput{
		SenderID:      user.ID,
		ReceiverID:    req.ReceiverID,
		Content:       req.Content,
		HelpRequestID: req.HelpRequestID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, h.messageResponse(*message), http.StatusCreated)
}

func (h *Handlers) ListThread(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, "invalid help request id", http.StatusBadRequest)
		return
	}

	messages, err := h.MessageService.ListThread(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		out = append(out, h.messageResponse(message))
	}
	writeSuccess(w, out, http.StatusOK)
}

func (h *Handlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id, ok := pathID(r)
	if !ok {
		writeError(w, "invalid message id", http.StatusBadRequest)
		return
	}

	if err := h.MessageService.MarkRead(r.Context(), id, user.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
