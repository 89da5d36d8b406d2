package stream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendHeadersAndBody(t *testing.T) {
	var gotKey, gotType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		gotKey = r.Header.Get("AccessKey")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u := &Uploader{HTTP: srv.Client()}
	payload := "fake video bytes"
	var lastSent int64
	err := u.Send(context.Background(), srv.URL, "secret-key", strings.NewReader(payload), int64(len(payload)), func(sent int64) {
		lastSent = sent
	})

	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotKey != "secret-key" {
		t.Errorf("AccessKey = %q", gotKey)
	}
	if gotType != "application/octet-stream" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if string(gotBody) != payload {
		t.Errorf("body = %q", gotBody)
	}
	if lastSent != int64(len(payload)) {
		t.Errorf("final progress = %d, want %d", lastSent, len(payload))
	}
}

func TestSendNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	u := &Uploader{HTTP: srv.Client()}
	err := u.Send(context.Background(), srv.URL, "k", strings.NewReader("x"), 1, nil)
	if err == nil || !strings.Contains(err.Error(), "status=403") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestSendHonorsAbort(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	u := &Uploader{HTTP: srv.Client()}
	if err := u.Send(ctx, srv.URL, "k", strings.NewReader("x"), 1, nil); err == nil {
		t.Error("expected error on canceled context")
	}
}

func TestEmbedURL(t *testing.T) {
	got := EmbedURL("https://iframe.mediadelivery.net/embed/%s/%s", "9", "abc-123")
	want := "https://iframe.mediadelivery.net/embed/9/abc-123"
	if got != want {
		t.Errorf("EmbedURL = %q, want %q", got, want)
	}
}
