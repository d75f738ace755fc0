// Package web serves the two embedded pages: the public registration form
// and the admin dashboard. Both are thin shells over the JSON API.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/dotuffour/retreat-portal/internal/config"
	"github.com/dotuffour/retreat-portal/pkg/core/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer holds the parsed page templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{templates: tmpl}, nil
}

type pageData struct {
	EventName    string
	EventDate    string
	WorkerPrice  int
	StudentPrice int
}

func dataFromConfig(cfg *config.Config) pageData {
	return pageData{
		EventName:    cfg.EventName,
		EventDate:    cfg.EventDate,
		WorkerPrice:  model.TicketWorker.Price(),
		StudentPrice: model.TicketStudent.Price(),
	}
}

// RegisterPage renders the public registration form.
func (r *Renderer) RegisterPage(w io.Writer, cfg *config.Config) error {
	return r.templates.ExecuteTemplate(w, "register.html", dataFromConfig(cfg))
}

// AdminPage renders the admin dashboard shell.
func (r *Renderer) AdminPage(w io.Writer, cfg *config.Config) error {
	return r.templates.ExecuteTemplate(w, "admin.html", dataFromConfig(cfg))
}
