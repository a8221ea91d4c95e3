// Package site embeds the contact page and its static assets.
package site

import (
	"embed"
	"io/fs"
)

//go:embed static
var assets embed.FS

// Static returns the asset tree rooted at static/ for HTTP serving.
func Static() (fs.FS, error) {
	return fs.Sub(assets, "static")
}

// ContactPage returns the contact form HTML document.
func ContactPage() ([]byte, error) {
	return assets.ReadFile("static/contact.html")
}
