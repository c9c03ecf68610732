package mail

import (
	"context"
	"errors"
	"mime"
	"testing"
)

func TestBuildSMTPMessage(t *testing.T) {
	m, err := buildSMTPMessage(Message{
		From:    "Cycle <notify@gimago.cn>",
		To:      []string{"a@example.com"},
		Subject: "【提醒】1 个物品即将过期",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("buildSMTPMessage() error: %v", err)
	}

	if to := m.GetHeader("To"); len(to) != 1 || to[0] != "a@example.com" {
		t.Errorf("To = %v", to)
	}
	subj := m.GetHeader("Subject")
	if len(subj) != 1 {
		t.Fatalf("Subject = %v", subj)
	}
	// Non-ASCII subjects are stored RFC 2047 encoded.
	decoded, err := new(mime.WordDecoder).DecodeHeader(subj[0])
	if err != nil {
		t.Fatalf("decode subject %q: %v", subj[0], err)
	}
	if decoded != "【提醒】1 个物品即将过期" {
		t.Errorf("Subject = %q, decoded %q", subj[0], decoded)
	}
	if from := m.GetHeader("From"); len(from) != 1 || from[0] == "" {
		t.Errorf("From = %v", from)
	}
}

func TestBuildSMTPMessage_BadSender(t *testing.T) {
	if _, err := buildSMTPMessage(Message{From: "not an address", To: []string{"a@example.com"}}); err == nil {
		t.Error("expected error for unparseable sender")
	}
}

func TestSMTPSender_CanceledContext(t *testing.T) {
	s := NewSMTP(SMTPConfig{Host: "127.0.0.1", Port: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, Message{From: "a@example.com", To: []string{"b@example.com"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Send() = %v, want context.Canceled", err)
	}
}
