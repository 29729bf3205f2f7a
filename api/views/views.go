// Package views renders the storefront pages from templates embedded in the binary.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/money"
)

//go:embed templates
var templateFS embed.FS

// Page is the data bag every template receives.
type Page struct {
	Title     string
	Account   *models.Account
	CartCount int64
	Flash     *responses.FlashMessage
	Data      any
}

// Renderer writes a named page with the given status.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, page Page) error
}

// Templates holds one parsed set per page, each sharing the layout.
type Templates struct {
	pages map[string]*template.Template
}

// New parses the embedded layout and pages. staticPrefix is prepended to stored image refs.
func New(staticPrefix string) (*Templates, error) {
	funcs := template.FuncMap{
		"money":  formatMoney,
		"static": staticURL(staticPrefix),
		"add":    func(a, b int) int { return a + b },
	}

	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		set, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := set.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = set
	}
	return &Templates{pages: pages}, nil
}

// Render executes into a buffer first so a template error never leaves a half-written page.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, page Page) error {
	set, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Names lists the available pages.
func (t *Templates) Names() []string {
	names := make([]string, 0, len(t.pages))
	for name := range t.pages {
		names = append(names, name)
	}
	return names
}

func formatMoney(v any) string {
	switch amount := v.(type) {
	case decimal.Decimal:
		return money.Format(amount)
	case string:
		parsed, err := money.ParsePrice(amount)
		if err != nil {
			return amount
		}
		return money.Format(parsed)
	default:
		return fmt.Sprint(v)
	}
}

func staticURL(prefix string) func(string) string {
	prefix = "/" + strings.Trim(prefix, "/")
	return func(ref string) string {
		if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "/") {
			return ref
		}
		return path.Join(prefix, ref)
	}
}
