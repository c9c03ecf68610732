package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gimago/cyclenotify/internal/model"
)

// Columns are cast to text so loosely typed tables (duration stored as
// text) decode the same way as strict ones. start_date goes through
// to_json, which renders date and timestamp columns in ISO 8601 with the
// offset included, the same form PostgREST returns.
func (r *Repository) listItemsQuery() string {
	return fmt.Sprintf(`
	SELECT id::text,
	       COALESCE(user_id::text, ''),
	       COALESCE(name::text, ''),
	       COALESCE(to_json(start_date) #>> '{}', ''),
	       COALESCE(duration::text, ''),
	       COALESCE(unit::text, '')
	FROM %s
	ORDER BY id`, r.itemsTable)
}

// ListItems returns every row of the items table. Unparseable values are
// left zero so Item.Validate rejects them.
func (r *Repository) ListItems(ctx context.Context) ([]model.Item, error) {
	rows, err := r.pool.Query(ctx, r.listItemsQuery())
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var (
			item                  model.Item
			start, duration, unit string
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &start, &duration, &unit); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}

		item.StartDate = parseStartDate(start, r.loc)
		item.Duration, _ = strconv.Atoi(strings.TrimSpace(duration))
		item.Unit = model.Unit(unit)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}

// parseStartDate keeps the calendar day of start_date in loc. Zoned
// timestamps are converted to loc first, as for the REST source.
func parseStartDate(s string, loc *time.Location) time.Time {
	t, err := model.ParseDate(s, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
