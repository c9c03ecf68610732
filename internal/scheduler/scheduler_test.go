package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	if _, err := New("every morning", time.UTC, func(context.Context) {}, discard()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNext(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	s, err := New("0 8 * * *", shanghai, func(context.Context) {}, discard())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	from := time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC) // 09:00 CST
	want := time.Date(2025, 6, 16, 8, 0, 0, 0, shanghai)
	if got := s.Next(from); !got.Equal(want) {
		t.Errorf("Next() = %v, want %v", got, want)
	}
}

func TestDescriptor(t *testing.T) {
	if _, err := New("@daily", nil, func(context.Context) {}, nil); err != nil {
		t.Fatalf("descriptor rejected: %v", err)
	}
}

func TestStartStop(t *testing.T) {
	s, err := New("@every 1h", time.UTC, func(context.Context) {}, discard())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	s.Start(context.Background())
	s.Start(context.Background()) // second start is a no-op

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("second Stop() error: %v", err)
	}
}
