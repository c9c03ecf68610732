package supabase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gimago/cyclenotify/internal/model"
)

const itemColumns = "id,user_id,name,start_date,duration,unit"

type itemRecord struct {
	ID        flexString `json:"id"`
	UserID    flexString `json:"user_id"`
	Name      string     `json:"name"`
	StartDate string     `json:"start_date"`
	Duration  flexInt    `json:"duration"`
	Unit      string     `json:"unit"`
}

// toModel converts leniently: an unparseable start date becomes the zero
// time and is rejected later by Item.Validate.
func (r itemRecord) toModel(c *Client) model.Item {
	start, _ := model.ParseDate(r.StartDate, c.loc)
	return model.Item{
		ID:        string(r.ID),
		UserID:    string(r.UserID),
		Name:      r.Name,
		StartDate: start,
		Duration:  int(r.Duration),
		Unit:      model.Unit(r.Unit),
	}
}

// ListItems reads the whole items table through PostgREST, ordered by id so
// offset paging is stable. PostgREST may return fewer rows than requested
// when db-max-rows is lower than the page size, so the offset advances by
// the rows actually received and only an empty page ends the listing.
func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	path := "/rest/v1/" + c.itemsTable

	for offset := 0; ; {
		q := url.Values{
			"select": {itemColumns},
			"order":  {"id.asc"},
			"limit":  {strconv.Itoa(c.itemsPageSize)},
			"offset": {strconv.Itoa(offset)},
		}

		var page []itemRecord
		if err := c.get(ctx, path, q, c.itemsSchema, &page); err != nil {
			return nil, fmt.Errorf("list items at offset %d: %w", offset, err)
		}

		if len(page) == 0 {
			return items, nil
		}
		for _, r := range page {
			items = append(items, r.toModel(c))
		}
		offset += len(page)
	}
}
