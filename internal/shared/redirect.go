package shared

import (
	"net/http"
	"net/url"
	"strings"
)

// ReturnPath picks where to send the browser after a form post: the posted
// return_to value, else the Referer. Only local paths are followed.
func ReturnPath(r *http.Request) string {
	candidate := r.PostFormValue("return_to")
	if candidate == "" {
		candidate = r.Referer()
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	if u.Host != "" && u.Host != r.Host {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
