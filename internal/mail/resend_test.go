package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResendSender_Send(t *testing.T) {
	var got resendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer re_test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	s := NewResend("re_test", srv.URL+"/", srv.Client())
	err := s.Send(context.Background(), Message{
		From:    "Cycle <notify@gimago.cn>",
		To:      []string{"a@example.com"},
		Subject: "subject",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if got.From != "Cycle <notify@gimago.cn>" || got.Subject != "subject" || got.HTML != "<p>hi</p>" {
		t.Errorf("unexpected payload %+v", got)
	}
	if len(got.To) != 1 || got.To[0] != "a@example.com" {
		t.Errorf("To = %v", got.To)
	}
}

func TestResendSender_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	}))
	defer srv.Close()

	err := NewResend("re_test", srv.URL, srv.Client()).Send(context.Background(), Message{To: []string{"bad"}})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Send() = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Name != "validation_error" || apiErr.Message != "Invalid to field" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestResendSender_NoRecipients(t *testing.T) {
	err := NewResend("k", "", nil).Send(context.Background(), Message{})
	if !errors.Is(err, ErrNoRecipients) {
		t.Errorf("Send() = %v, want ErrNoRecipients", err)
	}
}
