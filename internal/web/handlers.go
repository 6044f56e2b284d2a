package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/errors"
	"github.com/hpungsan/sorteador/internal/ops"
	"github.com/hpungsan/sorteador/internal/session"
)

// Handlers contains HTTP route handlers for the web UI. Every handler holds
// the session lock for the whole request.
type Handlers struct {
	sess     *session.Session
	renderer *Renderer
}

// HandleSorteio handles GET /sorteio: the draw tab.
func (h *Handlers) HandleSorteio(w http.ResponseWriter, r *http.Request) {
	h.sess.Lock()
	defer h.sess.Unlock()

	h.renderSorteio(w, r, http.StatusOK, "", false)
}

// HandleLoad handles POST /sorteio/load: read a spreadsheet by path.
func (h *Handlers) HandleLoad(w http.ResponseWriter, r *http.Request) {
	h.sess.Lock()
	defer h.sess.Unlock()

	out, err := ops.Load(h.sess, ops.LoadInput{
		Path:           r.FormValue("path"),
		Column:         r.FormValue("column"),
		CategoryColumn: r.FormValue("category_column"),
	})
	if err != nil {
		h.sorteioError(w, r, err)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	h.renderSorteio(w, r, http.StatusOK, out.Message, false)
}

// HandleColumn handles POST /sorteio/column: switch the drawing column.
func (h *Handlers) HandleColumn(w http.ResponseWriter, r *http.Request) {
	h.sess.Lock()
	defer h.sess.Unlock()

	out, err := ops.SelectColumn(h.sess, ops.SelectColumnInput{Column: r.FormValue("column")})
	if err != nil {
		h.sorteioError(w, r, err)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	h.renderSorteio(w, r, http.StatusOK, out.Message, false)
}

// HandleDraw handles POST /sorteio/draw: plain draw.
func (h *Handlers) HandleDraw(w http.ResponseWriter, r *http.Request) {
	h.sess.Lock()
	defer h.sess.Unlock()

	quantity, err := parseIntField(r, "quantity")
	if err != nil {
		h.sorteioError(w, r, err)
		return
	}
	h.drawResult(w, r)(ops.Draw(h.sess, ops.DrawInput{Quantity: quantity}))
}

// HandleRanked handles POST /sorteio/ranked: draw with placing and prizes.
// Custom prizes come as one "prize" field per rank, in rank order.
func (h *Handlers) HandleRanked(w http.ResponseWriter, r *http.Request) {
	h.sess.Lock()
	defer h.sess.Unlock()

	quantity, err := parseIntField(r, "quantity")
	if err != nil {
		h.sorteioError(w, r, err)
		return
	}
	mode, err := draw.ParsePrizeMode(r.FormValue("prize_mode"))
	if err != nil {
		h.sorteioError(w, r, err)
		return
	}
	h.drawResult(w, r)(ops.Ranked(h.sess, ops.RankedInput{
		Quantity:  quantity,
		PrizeMode: mode,
		Prizes:    splitPrizes(r.PostForm["prize"]),
	}))
}

// HandleGroups handles POST /sorteio/groups: split every item into groups.
func (h *Handlers) HandleGroups(w http.ResponseWriter, r *http.Request) {
	h.sess.Lock()
	defer h.sess.Unlock()

	groups, err := parseIntField(r, "groups")
	if err != nil {
		h.sorteioError(w, r, err)
		return
	}
	h.drawResult(w, r)(ops.Groups(h.sess, ops.GroupsInput{Groups: groups}))
}

// HandleCategory handles POST /sorteio/category: draw within one category.
func (h *Handlers) HandleCategory(w http.ResponseWriter, r *http.Request) {
	h.sess.Lock()
	defer h.sess.Unlock()

	quantity, err := parseIntField(r, "quantity")
	if err != nil {
		h.sorteioError(w, r, err)
		return
	}
	h.drawResult(w, r)(ops.Category(h.sess, ops.CategoryInput{
		Category: r.FormValue("category"),
		Quantity: quantity,
	}))
}

// HandleExport handles POST /sorteio/export: save the last result.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	h.sess.Lock()
	defer h.sess.Unlock()

	out, err := ops.Export(h.sess, ops.ExportInput{Path: r.FormValue("path")})
	if err != nil {
		h.sorteioError(w, r, err)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	h.renderSorteio(w, r, http.StatusOK, out.Message, false)
}

// HandleHistorico handles GET /historico: the history tab.
func (h *Handlers) HandleHistorico(w http.ResponseWriter, r *http.Request) {
	h.sess.Lock()
	defer h.sess.Unlock()

	h.renderHistorico(w, r, "")
}

// HandleClearHistory handles POST /historico/clear.
func (h *Handlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	h.sess.Lock()
	defer h.sess.Unlock()

	out, err := ops.ClearHistory(h.sess)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	h.renderHistorico(w, r, out.Message)
}

// HandleGraficos handles GET /graficos: the chart tab.
func (h *Handlers) HandleGraficos(w http.ResponseWriter, r *http.Request) {
	h.sess.Lock()
	defer h.sess.Unlock()

	out, err := ops.Chart(h.sess, ops.ChartInput{})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	bars := chartBars(out.Summary)
	h.renderer.renderPage(w, r, "graficos", GraficosPageData{
		PageData: h.renderer.page("Gráficos", "graficos"),
		Chart:    out.Summary,
		Bars:     bars,
		Height:   len(bars) * barRowHeight,
	})
}

// drawResult returns a continuation that renders the outcome of a draw op.
func (h *Handlers) drawResult(w http.ResponseWriter, r *http.Request) func(*ops.DrawOutput, error) {
	return func(out *ops.DrawOutput, err error) {
		if err != nil {
			h.sorteioError(w, r, err)
			return
		}
		if wantsJSON(r) {
			renderJSON(w, http.StatusOK, out)
			return
		}
		h.renderSorteio(w, r, http.StatusOK, "", false)
	}
}

// sorteioError shows err as a flash on the draw tab, keeping its status code.
// JSON and htmx callers get the negotiated error response instead.
func (h *Handlers) sorteioError(w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) || r.Header.Get("HX-Request") == "true" {
		h.renderer.renderError(w, r, err)
		return
	}
	sErr := errors.As(err)
	h.renderSorteio(w, r, sErr.Status, sErr.Message, true)
}

func (h *Handlers) renderSorteio(w http.ResponseWriter, r *http.Request, status int, flash string, isError bool) {
	cols := []ops.ColumnInfo{}
	if out, err := ops.Columns(h.sess); err == nil {
		cols = out.Columns
	}

	data := SorteioPageData{
		PageData:        h.renderer.page("Sorteio", "sorteio"),
		Status:          ops.Status(h.sess),
		Columns:         cols,
		NoCategory:      draw.NoCategory,
		DefaultQuantity: h.sess.Config.DefaultQuantity,
		DefaultGroups:   h.sess.Config.DefaultGroups,
		ResultHTML:      renderMarkdown(resultMarkdown(h.sess.Last)),
	}
	data.Flash = flash
	data.IsError = isError
	h.renderer.renderPageStatus(w, r, status, "sorteio", data)
}

func (h *Handlers) renderHistorico(w http.ResponseWriter, r *http.Request, flash string) {
	out := ops.History(h.sess)
	data := HistoricoPageData{
		PageData:    h.renderer.page("Histórico", "historico"),
		History:     out,
		HistoryHTML: renderMarkdown(historyMarkdown(out.Lines)),
	}
	data.Flash = flash
	h.renderer.renderPage(w, r, "historico", data)
}

// parseIntField reads an optional integer form field. Empty means nil.
func parseIntField(r *http.Request, key string) (*int, error) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, errors.NewInvalidRequest(key + " must be an integer")
	}
	return &n, nil
}

// splitPrizes accepts either one field per rank or a single newline-separated
// field, as typed in the textarea.
func splitPrizes(values []string) []string {
	if len(values) != 1 {
		return values
	}
	return strings.Split(strings.ReplaceAll(values[0], "\r\n", "\n"), "\n")
}
