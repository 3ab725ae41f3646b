// Package web embeds the dashboard assets served under /dash.
package web

import "embed"

// TemplatesFS embeds the dashboard page template.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the dashboard's static assets (css/js).
//
//go:embed static/*
var StaticFS embed.FS
