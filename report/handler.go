package report

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adlens/adlens/internal/platform/httpx"
)

// Handler exposes the converter's health to operators.
type Handler struct {
	client *Client
	logger *slog.Logger
}

// NewHandler creates a report handler.
func NewHandler(client *Client, logger *slog.Logger) *Handler {
	return &Handler{client: client, logger: logger}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/health", h.health)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := h.client.Ping(r.Context()); err != nil {
		status, code = "unavailable", http.StatusServiceUnavailable
		if errors.Is(err, ErrNotConfigured) {
			status = "disabled"
		} else {
			h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		}
	}
	httpx.JSON(w, code, map[string]string{"status": status})
}
