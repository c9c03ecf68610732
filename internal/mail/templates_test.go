package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/gimago/cyclenotify/internal/model"
)

func TestStatusLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		days   int
		status string
		color  string
	}{
		{1, "剩余 1 天", ColorSoon},
		{0, "剩余 0 天", ColorSoon},
		{-5, "已过期 5 天", ColorExpired},
	}

	for _, tt := range tests {
		status, color := StatusLine(model.ExpiryResult{DaysLeft: tt.days})
		if status != tt.status || color != tt.color {
			t.Errorf("StatusLine(%d) = %q, %q; want %q, %q", tt.days, status, color, tt.status, tt.color)
		}
	}
}

func TestAlertSubject(t *testing.T) {
	t.Parallel()

	if got := AlertSubject(2); got != "【提醒】2 个物品即将过期" {
		t.Errorf("AlertSubject(2) = %q", got)
	}
}

func TestRenderAlert(t *testing.T) {
	t.Parallel()

	group := model.AlertGroup{
		UserID: "u1",
		Email:  "a@example.com",
		Items: []model.ExpiryResult{
			{Name: "Gym", DaysLeft: 1, ExpiryDate: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)},
			{Name: "Domain", DaysLeft: -5, ExpiryDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)},
		},
	}

	html, err := RenderAlert(NewAlertParams(group, "https://tools.gimago.cn/cycle", "", nil))
	if err != nil {
		t.Fatalf("RenderAlert() error: %v", err)
	}

	for _, want := range []string{
		"<h2>Cycle 物品提醒</h2>",
		`<li><strong>Gym</strong>: <span style="color:orange">剩余 1 天</span> (2025/6/16 到期)</li>`,
		`<li><strong>Domain</strong>: <span style="color:red">已过期 5 天</span> (2025/6/10 到期)</li>`,
		`<a href="https://tools.gimago.cn/cycle">点击查看详情</a>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered body missing %q\n%s", want, html)
		}
	}

	if strings.Index(html, "Gym") > strings.Index(html, "Domain") {
		t.Error("items must keep group order")
	}
}

func TestRenderAlert_EscapesNames(t *testing.T) {
	t.Parallel()

	group := model.AlertGroup{Items: []model.ExpiryResult{{Name: "<script>x</script>", DaysLeft: 2}}}

	html, err := RenderAlert(NewAlertParams(group, "https://example.com", "", nil))
	if err != nil {
		t.Fatalf("RenderAlert() error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("item name not escaped:\n%s", html)
	}
}

func TestNewAlertParams_DateInLocation(t *testing.T) {
	t.Parallel()

	shanghai := time.FixedZone("CST", 8*3600)
	group := model.AlertGroup{Items: []model.ExpiryResult{
		{Name: "x", DaysLeft: 1, ExpiryDate: time.Date(2025, 6, 16, 0, 0, 0, 0, shanghai)},
	}}

	p := NewAlertParams(group, "", "2006-01-02", time.UTC)
	if p.Items[0].Date != "2025-06-15" {
		t.Errorf("Date = %s, want 2025-06-15", p.Items[0].Date)
	}
}
