package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/hpungsan/sorteador/internal/chart"
	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/errors"
	"github.com/hpungsan/sorteador/internal/history"
	"github.com/hpungsan/sorteador/internal/ops"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active tab: "sorteio", "historico", "graficos"
	Flash   string
	IsError bool
}

// SorteioPageData is the template data for the draw tab.
type SorteioPageData struct {
	PageData
	Status          *ops.StatusOutput
	Columns         []ops.ColumnInfo
	NoCategory      string
	DefaultQuantity int
	DefaultGroups   int
	ResultHTML      template.HTML
}

// HistoricoPageData is the template data for the history tab.
type HistoricoPageData struct {
	PageData
	History     *ops.HistoryOutput
	HistoryHTML template.HTML
}

// GraficosPageData is the template data for the chart tab.
type GraficosPageData struct {
	PageData
	Chart  chart.Summary
	Bars   []Bar
	Height int
}

// Bar is one row of the SVG bar chart.
type Bar struct {
	Label   string
	Count   int
	Percent float64
	Y       int
	Width   int
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	logger    *zap.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, logger *zap.Logger) *Renderer {
	funcMap := template.FuncMap{
		"add":      func(a, b int) int { return a + b },
		"percent":  func(p float64) string { return fmt.Sprintf("%.1f%%", p) },
		"newlines": func(s string) []string { return strings.Split(s, "\n") },
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"sorteio":   "sorteio.html",
		"historico": "historico.html",
		"graficos":  "graficos.html",
		"error":     "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		logger:    logger,
	}
}

func (r *Renderer) page(title, nav string) PageData {
	return PageData{Title: title, Version: r.version, Nav: nav}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
// For HTMX requests, only the "content" block is rendered to avoid duplicating the layout.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.logger.Error("template not found", zap.String("template", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	block := "layout"
	if req != nil && req.Header.Get("HX-Request") == "true" {
		block = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.logger.Error("template execution error", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	sErr := errors.As(err)
	status := sErr.Status
	message := sErr.Message

	// HTMX request: return HTML fragment
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="flash error">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(sErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	// Full error page
	data := ErrorPageData{
		PageData:   r.page(fmt.Sprintf("Erro %d", status), ""),
		StatusCode: status,
		Message:    message,
	}
	r.renderPageStatus(w, req, status, "error", data)
}

func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// mdEscape backslash-escapes markdown punctuation in spreadsheet text.
func mdEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune("\\`*_{}[]()#+-.!<>|~", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func mdList(b *strings.Builder, names []string) {
	for _, n := range names {
		b.WriteString("- " + mdEscape(n) + "\n")
	}
}

// resultMarkdown renders a draw result as markdown for the result panel.
func resultMarkdown(r *draw.Result) string {
	if r == nil {
		return ""
	}

	var b strings.Builder
	switch r.Kind {
	case draw.KindRanked:
		b.WriteString("### Resultado com colocação\n\n")
		for i, name := range r.Items {
			fmt.Fprintf(&b, "%d. %s", i+1, mdEscape(name))
			if prize, ok := r.PrizeFor(i + 1); ok {
				b.WriteString(" - **Prêmio:** " + mdEscape(prize))
			}
			b.WriteString("\n")
		}
	case draw.KindGrouped:
		b.WriteString("### Grupos criados\n\n")
		for i, group := range r.Groups {
			fmt.Fprintf(&b, "#### Grupo %d (%d itens)\n\n", i+1, len(group))
			mdList(&b, group)
			b.WriteString("\n")
		}
	case draw.KindCategorized:
		b.WriteString("### Itens da classificação " + mdEscape(r.Category) + "\n\n")
		mdList(&b, r.Items)
	default:
		b.WriteString("### Itens sorteados\n\n")
		mdList(&b, r.Items)
	}
	return b.String()
}

// historyMarkdown renders history lines as an ordered list.
func historyMarkdown(lines []history.Line) string {
	if len(lines) == 0 {
		return mdEscape(history.EmptyText) + "\n"
	}
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%d. %s\n", l.Label, mdEscape(l.Text))
	}
	return b.String()
}

const (
	barRowHeight = 32
	barMaxWidth  = 400
)

// chartBars lays out one SVG bar per slice, scaled to the largest count.
func chartBars(s chart.Summary) []Bar {
	top := 0
	for _, sl := range s.Slices {
		top = max(top, sl.Count)
	}
	bars := make([]Bar, 0, len(s.Slices))
	for i, sl := range s.Slices {
		width := 0
		if top > 0 {
			width = sl.Count * barMaxWidth / top
		}
		bars = append(bars, Bar{
			Label:   sl.Label,
			Count:   sl.Count,
			Percent: sl.Percent,
			Y:       i * barRowHeight,
			Width:   width,
		})
	}
	return bars
}
