package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/oliwiasala/movie-list/assets"
)

func GetFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatRating": formatRating,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			// Cut on a rune boundary
			cut := strings.ToValidUTF8(s[:length], "")
			return strings.TrimSpace(cut) + "..."
		},
	}
}

// formatRating renders 8 as "8" and 7.5 as "7.5".
func formatRating(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

// LoadTemplate parses the base layout, shared components and one page.
func LoadTemplate(fsys fs.FS, name string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(GetFuncMap()).ParseFS(fsys,
		"layouts/base.html",
		"components/*.html",
		"pages/"+name+".html",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}

func loadPages() (map[string]*template.Template, error) {
	fsys := assets.Templates()
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageIndex, pageAdd, pageSelect, pageEdit, pageError} {
		tmpl, err := LoadTemplate(fsys, name)
		if err != nil {
			return nil, err
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// ParseIDFromQuery extracts and parses an integer ID from query parameters
func ParseIDFromQuery(r *http.Request, param string) (int64, error) {
	idStr := strings.TrimSpace(r.URL.Query().Get(param))
	if idStr == "" {
		return 0, fmt.Errorf("missing %s parameter", param)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", param)
	}
	return id, nil
}
