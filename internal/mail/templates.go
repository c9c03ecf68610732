package mail

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gimago/cyclenotify/internal/model"
)

// Status colours.
const (
	ColorExpired = "red"
	ColorSoon    = "orange"
)

// DefaultDateLayout renders expiry dates as 2025/6/16.
const DefaultDateLayout = "2006/1/2"

var (
	alertTemplate = template.New("alert")

	//go:embed templates/alert.html
	alertTemplateRaw string
)

func init() {
	if _, err := alertTemplate.Parse(alertTemplateRaw); err != nil {
		panic(err)
	}
}

// AlertLine is one rendered list entry.
type AlertLine struct {
	Name   string
	Color  string
	Status string
	Date   string
}

// AlertMailParams feeds the alert template.
type AlertMailParams struct {
	Items      []AlertLine
	DetailsURL string
}

// StatusLine describes a result as "已过期 N 天" or "剩余 N 天" with the
// matching colour.
func StatusLine(r model.ExpiryResult) (status, color string) {
	if r.Expired() {
		return fmt.Sprintf("已过期 %d 天", -r.DaysLeft), ColorExpired
	}
	return fmt.Sprintf("剩余 %d 天", r.DaysLeft), ColorSoon
}

// AlertSubject summarises the number of items in a group.
func AlertSubject(n int) string {
	return fmt.Sprintf("【提醒】%d 个物品即将过期", n)
}

// NewAlertParams converts an alert group into template input. Expiry dates
// are shown in loc using layout.
func NewAlertParams(group model.AlertGroup, detailsURL, layout string, loc *time.Location) AlertMailParams {
	if layout == "" {
		layout = DefaultDateLayout
	}
	if loc == nil {
		loc = time.UTC
	}

	lines := make([]AlertLine, 0, len(group.Items))
	for _, r := range group.Items {
		status, color := StatusLine(r)
		lines = append(lines, AlertLine{
			Name:   r.Name,
			Color:  color,
			Status: status,
			Date:   r.ExpiryDate.In(loc).Format(layout),
		})
	}
	return AlertMailParams{Items: lines, DetailsURL: detailsURL}
}

func render(t *template.Template, p any) (string, error) {
	b := bytes.Buffer{}
	err := t.Execute(&b, p)
	return b.String(), err
}

// RenderAlert renders the alert summary body.
func RenderAlert(p AlertMailParams) (string, error) {
	return render(alertTemplate, p)
}
