// Package web embeds the dashboard templates and static assets.
package web

import "embed"

// Templates embeds HTML templates.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static embeds static assets, including robots.txt at the root.
//
//go:embed static
var Static embed.FS
