package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"briefdesk/internal/model"
)

func TestHTTPSourceList(t *testing.T) {
	want := []model.Message{
		{ID: uuid.New(), Channel: model.ChannelGmail, Sender: "alice@example.com", Snippet: "hi"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %q, want /messages", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %q, want default 50", got)
		}
		if got := r.URL.Query().Get("channel"); got != "gmail" {
			t.Errorf("channel = %q, want gmail", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header = %q", got)
		}
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL, "tok")
	got, err := s.List(context.Background(), Filter{Channel: "gmail"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != want[0].ID {
		t.Errorf("List returned %+v", got)
	}
}

func TestHTTPSourceGetByIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL, "")
	msg, err := s.GetByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetByID on 404: %v, want nil error", err)
	}
	if msg != nil {
		t.Errorf("GetByID on 404 returned %+v, want nil", msg)
	}
}

func TestHTTPSourceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL, "")

	if _, err := s.GetByID(context.Background(), uuid.New()); err == nil {
		t.Error("GetByID on 500 returned nil error")
	}
	if _, err := s.List(context.Background(), Filter{}); err == nil {
		t.Error("List on 500 returned nil error")
	}
}
