package repository

import (
	"context"
	"fmt"

	"github.com/gimago/cyclenotify/internal/model"
)

const listUsersQuery = `
	SELECT id::text, COALESCE(raw_user_meta_data->>'notify_email', '')
	FROM auth.users
	ORDER BY created_at, id`

// ListUsers returns every auth user with the notify_email stored in their
// metadata.
func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, listUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.NotifyEmail); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
