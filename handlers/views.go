package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"time"

	"coffee-wifi/forms"
	"coffee-wifi/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

// pages lists every page template; each is parsed together with base.html.
var pages = []string{
	"index.html",
	"add_store.html",
	"register.html",
	"login.html",
	"admin.html",
	"error.html",
}

// pageData is what every page template receives.
type pageData struct {
	Title     string
	User      *models.User
	Flashes   []string
	CSRFField template.HTML
	Form      url.Values
	Errors    forms.Errors
	Stores    []models.Store
	Users     []models.UserSummary
	Status    int
}

// Views renders the embedded page templates.
type Views struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"stars": func(n int) string {
		out := ""
		for i := 0; i < n; i++ {
			out += "★"
		}
		return out
	},
	"date": func(t time.Time) string {
		return t.UTC().Format("2006-01-02")
	},
}

// LoadViews parses the embedded templates.
func LoadViews() (*Views, error) {
	v := &Views{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(templateFuncs).
			ParseFS(templateFiles, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		v.pages[page] = tmpl
	}
	return v, nil
}

func (v *Views) execute(w io.Writer, page string, data pageData) error {
	tmpl, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown template %s", page)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
