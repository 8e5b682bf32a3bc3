package models

import (
	"database/sql"
	"time"
)

const (
	UserTypeDisabled  = "disabled"
	UserTypeVolunteer = "volunteer"
)

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusCompleted = "completed"
)

const DefaultRating = 5.0

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	UserType     string    `json:"userType" db:"user_type"`
	Skills       string    `json:"skills" db:"skills"`
	Rating       float64   `json:"rating" db:"rating"`
	IsOnline     bool      `json:"isOnline" db:"is_online"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type HelpRequest struct {
	ID          int64        `json:"id" db:"id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Category    string       `json:"category" db:"category"`
	Status      string       `json:"status" db:"status"`
	AuthorID    int64        `json:"authorId" db:"author_id"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	AcceptedAt  sql.NullTime `json:"-" db:"accepted_at"`
	CompletedAt sql.NullTime `json:"-" db:"completed_at"`
}

type Message struct {
	ID            int64         `json:"id" db:"id"`
	Content       string        `json:"content" db:"content"`
	SenderID      int64         `json:"senderId" db:"sender_id"`
	ReceiverID    int64         `json:"receiverId" db:"receiver_id"`
	HelpRequestID sql.NullInt64 `json:"-" db:"help_request_id"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	IsRead        bool          `json:"isRead" db:"is_read"`
}

type Attachment struct {
	ID            int64     `json:"id" db:"id"`
	HelpRequestID int64     `json:"helpRequestId" db:"help_request_id"`
	ObjectName    string    `json:"-" db:"object_name"`
	URL           string    `json:"url" db:"url"`
	FileName      string    `json:"fileName" db:"file_name"`
	ContentType   string    `json:"contentType" db:"content_type"`
	Size          int64     `json:"size" db:"size"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// HelpRequestFilter holds optional equality filters; empty fields are ignored.
type HelpRequestFilter struct {
	Category string
	Status   string
}

type Stats struct {
	Users        int `json:"users" db:"users"`
	HelpRequests int `json:"helpRequests" db:"help_requests"`
	Messages     int `json:"messages" db:"messages"`
}
