package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"helpconnect/internal/models"
)

const helpRequestColumns = `id, title, description, category, status, author_id, created_at, accepted_at, completed_at`

const (
	queryInsertHelpRequest = `INSERT INTO help_requests (title, description, category, status, author_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`
	querySelectHelpRequestByID = `SELECT ` + helpRequestColumns + ` FROM help_requests WHERE id = ?`
	querySelectHelpRequests    = `SELECT ` + helpRequestColumns + ` FROM help_requests`
	orderHelpRequestsNewest    = ` ORDER BY created_at DESC, id DESC`
	querySelectRecentRequests  = querySelectHelpRequests + orderHelpRequestsNewest + ` LIMIT ?`
	queryAcceptHelpRequest     = `UPDATE help_requests SET status = ?, accepted_at = ? WHERE id = ?`
	queryCompleteHelpRequest   = `UPDATE help_requests SET status = ?, completed_at = ? WHERE id = ?`
	queryResetHelpRequest      = `UPDATE help_requests SET status = ?, accepted_at = NULL, completed_at = NULL WHERE id = ?`
)

type helpRequestRepository struct {
	db sqlx.ExtContext
}

func NewHelpRequestRepository(db sqlx.ExtContext) HelpRequestRepository {
	return &helpRequestRepository{db: db}
}

func (r *helpRequestRepository) Create(ctx context.Context, request *models.HelpRequest) error {
	if request.Status == "" {
		request.Status = models.StatusPending
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(queryInsertHelpRequest),
		request.Title,
		request.Description,
		request.Category,
		request.Status,
		request.AuthorID,
		request.CreatedAt,
	).Scan(&request.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("author %d: %w", request.AuthorID, ErrForeignKey)
		}
		return fmt.Errorf("failed to create help request: %w", err)
	}

	return nil
}

func (r *helpRequestRepository) GetByID(ctx context.Context, requestID int64) (*models.HelpRequest, error) {
	var request models.HelpRequest

	err := sqlx.GetContext(ctx, r.db, &request, r.db.Rebind(querySelectHelpRequestByID), requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("help request %d: %w", requestID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get help request: %w", err)
	}

	return &request, nil
}

// List returns help requests newest first. Only non-empty filter fields
// constrain the result.
func (r *helpRequestRepository) List(ctx context.Context, filter models.HelpRequestFilter) ([]models.HelpRequest, error) {
	query, args := buildHelpRequestListQuery(filter)

	requests := []models.HelpRequest{}
	if err := sqlx.SelectContext(ctx, r.db, &requests, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list help requests: %w", err)
	}

	return requests, nil
}

func buildHelpRequestListQuery(filter models.HelpRequestFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}

	query := querySelectHelpRequests
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	return query + orderHelpRequestsNewest, args
}

func (r *helpRequestRepository) ListRecent(ctx context.Context, limit int) ([]models.HelpRequest, error) {
	requests := []models.HelpRequest{}
	if err := sqlx.SelectContext(ctx, r.db, &requests, r.db.Rebind(querySelectRecentRequests), limit); err != nil {
		return nil, fmt.Errorf("failed to list recent help requests: %w", err)
	}

	return requests, nil
}

// UpdateStatus moves a request to status and stamps the matching timestamp.
// Moving back to pending clears both timestamps.
func (r *helpRequestRepository) UpdateStatus(ctx context.Context, requestID int64, status string, at time.Time) error {
	var (
		result sql.Result
		err    error
	)

	switch status {
	case models.StatusAccepted:
		result, err = r.db.ExecContext(ctx, r.db.Rebind(queryAcceptHelpRequest), status, at, requestID)
	case models.StatusCompleted:
		result, err = r.db.ExecContext(ctx, r.db.Rebind(queryCompleteHelpRequest), status, at, requestID)
	case models.StatusPending:
		result, err = r.db.ExecContext(ctx, r.db.Rebind(queryResetHelpRequest), status, requestID)
	default:
		return fmt.Errorf("unknown help request status %q", status)
	}
	if err != nil {
		return fmt.Errorf("failed to update help request status: %w", err)
	}

	return expectAffected(result, fmt.Sprintf("help request %d", requestID))
}
