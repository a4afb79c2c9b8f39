package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestRenderHTMLPostsDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != convertHTMLPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		file, _, err := r.FormFile("files")
		if err != nil {
			t.Errorf("missing html file: %v", err)
			return
		}
		html, _ := io.ReadAll(file)
		if !strings.Contains(string(html), "<h1>Brands</h1>") {
			t.Errorf("unexpected html %q", html)
		}
		_, _ = w.Write([]byte("%PDF"))
	}))
	defer srv.Close()

	pdf, err := NewClient(srv.URL+"/", nil).RenderHTML(context.Background(), "<h1>Brands</h1>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(pdf) != "%PDF" {
		t.Fatalf("unexpected pdf %q", pdf)
	}
}

func TestRenderHTMLReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).RenderHTML(context.Background(), "<p></p>")
	if err == nil || !strings.Contains(err.Error(), "chromium crashed") {
		t.Fatalf("expected status error with detail, got %v", err)
	}
}

func TestUnconfiguredClient(t *testing.T) {
	client := NewClient(" ", nil)
	if _, err := client.RenderHTML(context.Background(), ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	r := chi.NewRouter()
	NewHandler(client, slog.New(slog.NewTextHandler(io.Discard, nil))).MountRoutes(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusServiceUnavailable || !strings.Contains(rr.Body.String(), "disabled") {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
}
