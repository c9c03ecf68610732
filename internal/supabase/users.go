package supabase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gimago/cyclenotify/internal/model"
)

const adminUsersPath = "/auth/v1/admin/users"

type userRecord struct {
	ID           flexString `json:"id"`
	UserMetadata struct {
		NotifyEmail string `json:"notify_email"`
	} `json:"user_metadata"`
}

type usersPage struct {
	Users []userRecord `json:"users"`
}

// ListUsers pages through the Auth admin API and returns every user with
// the notify_email from their metadata. The server may cap per_page, so a
// short page does not mean the last one; only an empty page ends the
// listing.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User

	for page := 1; ; page++ {
		q := url.Values{
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(c.usersPageSize)},
		}

		var resp usersPage
		if err := c.get(ctx, adminUsersPath, q, "", &resp); err != nil {
			return nil, fmt.Errorf("list users page %d: %w", page, err)
		}

		if len(resp.Users) == 0 {
			return users, nil
		}
		for _, r := range resp.Users {
			users = append(users, model.User{
				ID:          string(r.ID),
				NotifyEmail: r.UserMetadata.NotifyEmail,
			})
		}
	}
}
