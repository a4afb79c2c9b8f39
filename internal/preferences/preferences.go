// Package preferences persists per-browser display settings.
package preferences

import (
	"net/http"
	"strings"
	"time"
)

// Theme is the colour scheme of every page.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// CookieName is the key the theme is stored under.
const CookieName = "theme"

// MaxAge keeps the preference for a year.
const MaxAge = 365 * 24 * time.Hour

// ParseTheme maps a stored value to a theme. Unknown values are light.
func ParseTheme(s string) Theme {
	if Theme(strings.ToLower(strings.TrimSpace(s))) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) String() string { return string(t) }

// Preferences are loaded once per request and handed to the templates.
type Preferences struct {
	Theme Theme
}

// Default returns the preferences of a first visit.
func Default() Preferences {
	return Preferences{Theme: ThemeLight}
}

// Dark reports whether the dark theme is active.
func (p Preferences) Dark() bool { return p.Theme == ThemeDark }

// Store loads and saves preferences for one browser.
type Store interface {
	Load(r *http.Request) Preferences
	Save(w http.ResponseWriter, p Preferences)
}

// CookieStore keeps preferences in a durable cookie.
type CookieStore struct {
	secure bool
}

// NewCookieStore constructs a CookieStore.
func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{secure: secure}
}

// Load reads the theme cookie, falling back to the defaults.
func (s *CookieStore) Load(r *http.Request) Preferences {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Default()
	}
	return Preferences{Theme: ParseTheme(cookie.Value)}
}

// Save writes the theme cookie.
func (s *CookieStore) Save(w http.ResponseWriter, p Preferences) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    ParseTheme(string(p.Theme)).String(),
		Path:     "/",
		MaxAge:   int(MaxAge / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
