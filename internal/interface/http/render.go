package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{"index", "register", "login", "dashboard", "career", "profile", "error"}

// view is the model every page template receives.
type view struct {
	Title         string
	Flashes       []flash
	Authenticated bool
	Data          any
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	funcs := template.FuncMap{
		"levelClass": func(level string) string {
			switch level {
			case "Beginner":
				return "level-beginner"
			case "Intermediate":
				return "level-intermediate"
			default:
				return "level-advanced"
			}
		},
	}

	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("http: parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// render executes a page into a buffer first so template failures still
// produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, v view) {
	t, ok := s.pages.pages[name]
	if !ok {
		s.requestLogger(r).Error("unknown template", logger.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	v.Flashes = append(s.cookies.flashes(w, r), v.Flashes...)

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		s.requestLogger(r).Error("failed to render template", logger.String("template", name), logger.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// serverError logs err and renders the generic error page.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.requestLogger(r).Error("request failed",
		logger.String("path", r.URL.Path),
		logger.Err(err),
	)
	s.render(w, r, http.StatusInternalServerError, "error", view{
		Title:   "Error",
		Flashes: []flash{{Category: flashError, Message: msgInternal}},
	})
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
