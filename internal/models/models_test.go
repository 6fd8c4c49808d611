package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/shelf/internal/shared"
)

func TestBookStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    BookStatus
		wantErr bool
	}{
		{"", StatusWishlist, false},
		{"reading", StatusReading, false},
		{" Completed ", StatusCompleted, false},
		{"paused", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBookStatus(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, shared.ErrValidation) {
				t.Errorf("ParseBookStatus(%q) error = %v, want validation error", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseBookStatus(%q) = %q, %v; want %q", tt.raw, got, err, tt.want)
		}
	}
}

func TestBookValidate(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		b := NewBook("u1", " OL1W ", " Dune ", "", "")
		if b.Status() != StatusWishlist || b.Progress() != 0 {
			t.Errorf("expected wishlist/0, got %s/%d", b.Status(), b.Progress())
		}
		if b.BookID() != "OL1W" || b.Title() != "Dune" {
			t.Errorf("expected trimmed fields, got %q %q", b.BookID(), b.Title())
		}
		if err := b.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		cases := map[string]func(*Book){
			"no title":     func(b *Book) { b.SetTitle("  ") },
			"bad status":   func(b *Book) { b.SetStatus("paused") },
			"progress 101": func(b *Book) { b.SetProgress(101) },
			"progress -1":  func(b *Book) { b.SetProgress(-1) },
		}
		for name, mutate := range cases {
			b := NewBook("u1", "OL1W", "Dune", "", "")
			mutate(b)
			if err := b.Validate(); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("%s: expected validation error, got %v", name, err)
			}
		}
	})
}

func TestUserJSON(t *testing.T) {
	u := NewUser(1, " Ada@Example.COM ", " Ada ", "$2a$10$hash")
	u.SetID("abc")

	if u.Email() != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", u.Email())
	}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "hash") {
		t.Errorf("password hash leaked into JSON: %s", data)
	}
	if !strings.Contains(string(data), `"name":"Ada"`) {
		t.Errorf("expected name in JSON: %s", data)
	}
}

func TestBookJSON(t *testing.T) {
	b := NewBook("u1", "OL1W", "Dune", "Frank Herbert", "")
	b.SetID("rec-1")
	b.SetStatus(StatusReading)
	b.SetProgress(40)

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Book
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID() != "rec-1" || decoded.Status() != StatusReading || decoded.Progress() != 40 {
		t.Errorf("unexpected decoded book: %+v", decoded.View())
	}
}

func TestActivityView(t *testing.T) {
	anon := NewActivity("", "Created book Dune")
	if anon.View().UserID != nil {
		t.Error("anonymous activity should serialize a null user_id")
	}

	if err := NewActivity("u1", "   ").Validate(); !errors.Is(err, shared.ErrValidation) {
		t.Errorf("expected validation error for blank message, got %v", err)
	}
}

func TestSessionExpired(t *testing.T) {
	s := NewSession("u1", time.Hour)
	if s.Expired(time.Now()) {
		t.Error("fresh session should not be expired")
	}
	if !s.Expired(s.ExpiresAt()) {
		t.Error("session should be expired at its expiry instant")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
