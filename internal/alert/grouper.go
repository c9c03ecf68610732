package alert

import (
	"time"

	"github.com/gimago/cyclenotify/internal/expiry"
	"github.com/gimago/cyclenotify/internal/model"
)

// Grouping is the outcome of partitioning one run's items.
type Grouping struct {
	// Groups are ordered by the first appearance of each owner in the
	// item list; items keep their input order.
	Groups []model.AlertGroup

	Evaluated      int
	SkippedNoEmail int
	InWindow       int
}

// ItemCount returns the number of items across all groups.
func (g *Grouping) ItemCount() int {
	n := 0
	for _, grp := range g.Groups {
		n += len(grp.Items)
	}
	return n
}

// Group evaluates every item at now and collects the alert-worthy ones per
// owner. Items whose owner has no entry in dir are skipped.
func Group(items []model.Item, dir model.Directory, now time.Time) *Grouping {
	out := &Grouping{}
	index := make(map[string]int)

	for _, item := range items {
		email, ok := dir.Lookup(item.UserID)
		if !ok {
			out.SkippedNoEmail++
			continue
		}

		out.Evaluated++
		res, alert := expiry.Evaluate(item, now)
		if !alert {
			continue
		}
		out.InWindow++

		i, seen := index[item.UserID]
		if !seen {
			i = len(out.Groups)
			index[item.UserID] = i
			out.Groups = append(out.Groups, model.AlertGroup{UserID: item.UserID, Email: email})
		}
		out.Groups[i].Items = append(out.Groups[i].Items, res)
	}

	return out
}
