package service

import (
	"context"
	"fmt"

	"helpconnect/internal/models"
)

// RequireAuth resolves token and runs op for the signed-in user. Anonymous
// callers get ErrAuth and op is never invoked.
func RequireAuth[T any](ctx context.Context, auth AuthService, token string, op func(ctx context.Context, user *models.User) (T, error)) (T, error) {
	var zero T

	user, err := auth.CurrentUser(ctx, token)
	if err != nil {
		return zero, err
	}
	if user == nil {
		return zero, fmt.Errorf("%w: login required", ErrAuth)
	}

	return op(ctx, user)
}
