// Package alert turns the fetched directory and items into per-user alert
// groups.
package alert

import (
	"strings"

	"github.com/gimago/cyclenotify/internal/model"
)

// BuildDirectory maps user IDs to notification emails. Users without a
// configured address are left out.
func BuildDirectory(users []model.User) model.Directory {
	dir := make(model.Directory, len(users))
	for _, u := range users {
		if !u.HasNotifyEmail() {
			continue
		}
		dir[u.ID] = strings.TrimSpace(u.NotifyEmail)
	}
	return dir
}
