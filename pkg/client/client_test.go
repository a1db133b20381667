package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inklint/inklint/pkg/client"
	"github.com/inklint/inklint/pkg/types"
)

func TestCheck_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/grammar-check" {
			t.Errorf("path=%q, want /api/grammar-check", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type=%q, want application/json", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors": [{"id": "e1", "type": "spelling", "context": "teh", "message": "m", "suggestions": ["the"]}], "correctedText": "the cat", "confidence": 0.9}`))
	}))
	defer srv.Close()

	c := client.New(client.WithBaseURL(srv.URL))
	res, err := c.Check(context.Background(), "teh cat")
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if len(res.Errors) != 1 || res.Errors[0].Kind != types.KindSpelling {
		t.Errorf("errors=%+v, want one spelling error", res.Errors)
	}
	if res.CorrectedText != "the cat" {
		t.Errorf("CorrectedText=%q, want %q", res.CorrectedText, "the cat")
	}
}

func TestCheck_RateLimitedMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "Too many requests, please try again later."}`))
	}))
	defer srv.Close()

	c := client.New(client.WithBaseURL(srv.URL))
	_, err := c.Check(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "wait a moment") {
		t.Errorf("err=%v, want the rate-limit guidance", err)
	}
}

func TestCheck_ServerFallbackFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "openai: transport: connection reset", "fallback": true}`))
	}))
	defer srv.Close()

	c := client.New(client.WithBaseURL(srv.URL))
	_, err := c.Check(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Grammar service failed") {
		t.Errorf("err=%v, want the generic service-failed message", err)
	}
}

func TestCheck_PlainErrorBodyPassedThrough(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Text too long. Maximum 50000 characters."}`))
	}))
	defer srv.Close()

	c := client.New(client.WithBaseURL(srv.URL))
	_, err := c.Check(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Text too long") {
		t.Errorf("err=%v, want the server's error string", err)
	}
}

func TestCheck_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := client.New(
		client.WithBaseURL(srv.URL),
		client.WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}),
	)
	_, err := c.Check(context.Background(), "text")
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err=%v, want the timeout message", err)
	}
}

func TestCheck_ConnectionRefused(t *testing.T) {
	t.Parallel()

	// A server that is immediately closed leaves a port nothing listens on.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := client.New(client.WithBaseURL(url))
	_, err := c.Check(context.Background(), "text")
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	if !strings.Contains(err.Error(), "Cannot connect") {
		t.Errorf("err=%v, want the connectivity message", err)
	}
}

func TestApplySuggestion_RoundTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/apply-suggestion" {
			t.Errorf("path=%q, want /api/apply-suggestion", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "I the cat", "errors": []}`))
	}))
	defer srv.Close()

	c := client.New(client.WithBaseURL(srv.URL))
	errs := []types.TextError{{ID: "e1", Context: "teh", Suggestions: []string{"the"}}}
	res, err := c.ApplySuggestion(context.Background(), "I teh cat", errs, "e1", "the")
	if err != nil {
		t.Fatalf("ApplySuggestion returned error: %v", err)
	}
	if res.Text != "I the cat" {
		t.Errorf("Text=%q, want %q", res.Text, "I the cat")
	}
	if len(res.Errors) != 0 {
		t.Errorf("Errors=%+v, want empty", res.Errors)
	}
}
