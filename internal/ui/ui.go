package ui

import (
	"embed"
	"html/template"
	"io"
)

// content embeds the HTML pages served to merchants and the control panel.
//
//go:embed templates/*.html
var content embed.FS

var tmpl = template.Must(template.ParseFS(content, "templates/*.html"))

// InstalledData fills the post-install confirmation page.
type InstalledData struct {
	StoreHash string
}

// LoadData fills the control-panel iframe page.
type LoadData struct {
	StoreHash string
	Installed bool
}

// RenderIndex writes the root health/landing page.
func RenderIndex(w io.Writer) error {
	return tmpl.ExecuteTemplate(w, "index.html", nil)
}

// RenderInstalled writes the installation confirmation page.
func RenderInstalled(w io.Writer, data InstalledData) error {
	return tmpl.ExecuteTemplate(w, "installed.html", data)
}

// RenderLoad writes the admin iframe content.
func RenderLoad(w io.Writer, data LoadData) error {
	return tmpl.ExecuteTemplate(w, "load.html", data)
}

// RenderError writes the generic failure page. It deliberately carries no
// diagnostic detail; specifics go to the log only.
func RenderError(w io.Writer) error {
	return tmpl.ExecuteTemplate(w, "error.html", nil)
}
