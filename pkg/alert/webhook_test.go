package alert

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elonfeng/shareradar/pkg/source"
)

func sampleNotification() *Notification {
	return &Notification{
		Article:   source.Article{ID: "42", Title: "Launch post", URL: "https://example.com/launch"},
		Key:       "https://example.com/launch",
		Score:     11,
		PrevScore: 5,
		Records:   7,
	}
}

func TestWebhookSendSigned(t *testing.T) {
	var gotSig, gotEvent string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Shareradar-Signature")
		gotEvent = r.Header.Get("X-Shareradar-Event")
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, "topsecret")
	if err := wh.Send(context.Background(), sampleNotification()); err != nil {
		t.Fatalf("send: %v", err)
	}

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(gotBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if gotSig != want {
		t.Errorf("signature mismatch: got %q want %q", gotSig, want)
	}
	if gotEvent != "engagement.surge" {
		t.Errorf("unexpected event header %q", gotEvent)
	}

	var env envelope
	if err := json.Unmarshal(gotBody, &env); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if env.Event != "engagement.surge" || env.SentAt.IsZero() {
		t.Errorf("unexpected envelope: event %q sent_at %v", env.Event, env.SentAt)
	}
	if env.Data == nil || env.Data.Score != 11 || env.Data.PrevScore != 5 {
		t.Errorf("unexpected payload: %+v", env.Data)
	}
}

func TestWebhookSendFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, "")
	if err := wh.Send(context.Background(), sampleNotification()); err == nil {
		t.Error("expected error on 500")
	}
}

func TestBroadcastJoinsFailures(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	m := NewManager([]Notifier{NewWebhook(ok.URL, ""), NewWebhook(bad.URL, "")})
	if err := m.Broadcast(context.Background(), sampleNotification()); err == nil {
		t.Error("expected broadcast failure when any notifier fails")
	}
}

func TestBroadcastNoNotifiers(t *testing.T) {
	m := NewManager(nil)
	if m.HasNotifiers() {
		t.Error("expected no notifiers")
	}
	if err := m.Broadcast(context.Background(), sampleNotification()); err != nil {
		t.Errorf("empty broadcast should succeed: %v", err)
	}
}
