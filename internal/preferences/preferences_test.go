package preferences

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, ParseTheme(" DARK "))
	assert.Equal(t, ThemeLight, ParseTheme("solarized"))
	assert.Equal(t, ThemeLight, ParseTheme(""))
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
}

func TestCookieStoreDefaultsToLight(t *testing.T) {
	store := NewCookieStore(false)
	prefs := store.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, ThemeLight, prefs.Theme)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "neon"})
	assert.Equal(t, ThemeLight, store.Load(req).Theme)
}

func TestToggledThemeSurvivesFreshLoad(t *testing.T) {
	store := NewCookieStore(false)
	r := chi.NewRouter()
	NewHandler(store, nil).MountRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/preferences/theme", strings.NewReader(url.Values{"return_to": {"/brands?start_date=2024-03-01"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/brands?start_date=2024-03-01", rr.Header().Get("Location"))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, int(MaxAge.Seconds()), cookies[0].MaxAge)

	fresh := httptest.NewRequest(http.MethodGet, "/", nil)
	fresh.AddCookie(cookies[0])
	assert.True(t, store.Load(fresh).Dark())
}

func TestExplicitThemeAndUnsafeReturn(t *testing.T) {
	store := NewCookieStore(false)
	r := chi.NewRouter()
	NewHandler(store, nil).MountRoutes(r)

	form := url.Values{"theme": {"light"}, "return_to": {"https://evil.example/phish"}}
	req := httptest.NewRequest(http.MethodPost, "/preferences/theme", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "light"})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Equal(t, "light", rr.Result().Cookies()[0].Value)
}
