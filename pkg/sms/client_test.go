package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
)

func TestSend(t *testing.T) {
	var received sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-key", "gaslink")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.Send(context.Background(), "+82 1012345678", "인증번호 [123456]"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if received.To != "+82 1012345678" {
		t.Fatalf("unexpected recipient %q", received.To)
	}
	if received.From != "gaslink" {
		t.Fatalf("unexpected sender %q", received.From)
	}
}

func TestSendGatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-key", "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Send(context.Background(), "+82 1012345678", "msg")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected CodeDependency, got %v", err)
	}
}

func TestSendValidation(t *testing.T) {
	client, err := NewClient("http://localhost", "key", "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Send(context.Background(), "", "msg"); err == nil {
		t.Fatal("expected phone validation error")
	}
	if err := client.Send(context.Background(), "+82 1012345678", " "); err == nil {
		t.Fatal("expected message validation error")
	}
}
