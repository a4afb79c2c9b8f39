package preferences

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/adlens/adlens/internal/shared"
)

// Handler serves the preference forms.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// MountRoutes registers preference endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/preferences/theme", h.handleTheme)
}

// handleTheme sets the posted theme, or toggles the current one when the form
// names none, then sends the browser back where it came from.
func (h *Handler) handleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	current := h.store.Load(r)
	next := current.Theme.Toggle()
	if v := strings.TrimSpace(r.PostForm.Get("theme")); v != "" {
		next = ParseTheme(v)
	}
	h.store.Save(w, Preferences{Theme: next})
	if h.logger != nil {
		h.logger.Debug("theme changed", slog.String("from", current.Theme.String()), slog.String("to", next.String()))
	}
	http.Redirect(w, r, shared.ReturnPath(r), http.StatusSeeOther)
}
