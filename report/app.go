package report

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gosurv/app"
	"gosurv/domain/core"
)

// App serves sweep reports as HTML: the markdown produced by the report
// service, rendered per request from the in-memory store.
type App struct {
	router  *chi.Mux
	store   *Store
	reports *app.ReportService
}

// NewApp creates the report server over a sweep store.
func NewApp(store *Store) *App {
	a := &App{
		router:  chi.NewRouter(),
		store:   store,
		reports: app.NewReportService(),
	}

	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	a.router.Get("/", a.handleLatest)
	a.router.Get("/sweeps/{id}", a.handleSweep)

	return a
}

// Run starts the report listener.
func (a *App) Run(port string) error {
	log.Printf("[Report] listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}

// Handler exposes the router for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) handleLatest(w http.ResponseWriter, r *http.Request) {
	batch := a.store.Latest()
	if batch == nil {
		http.Error(w, "no sweep has run yet", http.StatusNotFound)
		return
	}
	a.render(w, a.reports.Markdown(batch))
}

func (a *App) handleSweep(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseSweepID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	batch, err := a.store.GetBatch(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	a.render(w, a.reports.Markdown(batch))
}

// render converts report markdown to a standalone HTML page.
func (a *App) render(w http.ResponseWriter, md string) {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	body := markdown.ToHTML([]byte(md), p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>Survival Sweep Report</title></head><body>%s</body></html>", body)
}
