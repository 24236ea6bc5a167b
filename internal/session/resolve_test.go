package session

import (
	"testing"

	"github.com/desertthunder/uplink/internal/transfer"
)

func TestResolveNavigation(t *testing.T) {
	page := "https://calendars.example.com/2026/images/upload/"
	action := "https://calendars.example.com/2026/images/upload/submit/"

	t.Run("json redirect wins over resolved url", func(t *testing.T) {
		resp := &transfer.Response{
			Status:      200,
			ContentType: "application/json",
			FinalURL:    "https://calendars.example.com/elsewhere/",
			Body:        []byte(`{"redirect": "/calendars/42/"}`),
		}
		if got := ResolveNavigation(resp, page, action); got != "/calendars/42/" {
			t.Errorf("expected /calendars/42/, got %q", got)
		}
	})

	t.Run("json with charset parameter still counts as structured", func(t *testing.T) {
		resp := &transfer.Response{
			ContentType: "application/json; charset=utf-8",
			Body:        []byte(`{"redirect": "/calendars/2026/"}`),
		}
		if got := ResolveNavigation(resp, page, action); got != "/calendars/2026/" {
			t.Errorf("expected /calendars/2026/, got %q", got)
		}
	})

	t.Run("malformed json falls through to resolved url", func(t *testing.T) {
		resp := &transfer.Response{
			ContentType: "application/json",
			FinalURL:    "https://calendars.example.com/2026/",
			Body:        []byte(`{"redirect": `),
		}
		if got := ResolveNavigation(resp, page, action); got != "https://calendars.example.com/2026/" {
			t.Errorf("expected resolved URL, got %q", got)
		}
	})

	t.Run("json without redirect field falls through", func(t *testing.T) {
		resp := &transfer.Response{
			ContentType: "application/json",
			FinalURL:    page,
			Body:        []byte(`{"ok": true}`),
		}
		if got := ResolveNavigation(resp, page, action); got != action {
			t.Errorf("expected form action, got %q", got)
		}
	})

	t.Run("unstructured body uses resolved url when it differs from the page", func(t *testing.T) {
		resp := &transfer.Response{
			ContentType: "text/html",
			FinalURL:    "https://calendars.example.com/2026/",
			Body:        []byte("<html></html>"),
		}
		if got := ResolveNavigation(resp, page, action); got != "https://calendars.example.com/2026/" {
			t.Errorf("expected resolved URL, got %q", got)
		}
	})

	t.Run("redirect to self falls through to form action", func(t *testing.T) {
		resp := &transfer.Response{
			ContentType: "text/html",
			FinalURL:    page,
			Body:        []byte("<html></html>"),
		}
		if got := ResolveNavigation(resp, page, action); got != action {
			t.Errorf("expected form action, got %q", got)
		}
	})

	t.Run("no response falls through to form action", func(t *testing.T) {
		if got := ResolveNavigation(nil, page, action); got != action {
			t.Errorf("expected form action, got %q", got)
		}
	})
}

func TestIsStructured(t *testing.T) {
	tc := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/problem+json", true},
		{"text/html", false},
		{"text/html; charset=utf-8", false},
		{"", false},
		{"not a media type;;;", false},
	}

	for _, tt := range tc {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := isStructured(tt.contentType); got != tt.want {
				t.Errorf("isStructured(%q) = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}
