package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"helpconnect/internal/models"
)

const (
	queryCountUsers = `SELECT COUNT(*) FROM users`
	queryCounts     = `SELECT
		(SELECT COUNT(*) FROM users) AS users,
		(SELECT COUNT(*) FROM help_requests) AS help_requests,
		(SELECT COUNT(*) FROM messages) AS messages`
)

type statsRepository struct {
	db sqlx.ExtContext
}

func NewStatsRepository(db sqlx.ExtContext) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountUsers(ctx context.Context) (int, error) {
	var count int

	if err := sqlx.GetContext(ctx, r.db, &count, queryCountUsers); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

func (r *statsRepository) Counts(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats

	if err := sqlx.GetContext(ctx, r.db, &stats, queryCounts); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	return &stats, nil
}
