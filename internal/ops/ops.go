// Package ops implements one function per user action. Every surface (CLI,
// web, MCP) calls these with a *session.Session and gets back a JSON-ready
// output struct or a *errors.SorteioError.
package ops

import (
	"go.uber.org/zap"

	"github.com/hpungsan/sorteador/internal/chart"
	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/errors"
	"github.com/hpungsan/sorteador/internal/history"
	"github.com/hpungsan/sorteador/internal/session"
)

// DefaultCategoryQuantity is the draw size of a category draw when none is given.
const DefaultCategoryQuantity = 1

// DrawOutput is returned by every draw operation.
type DrawOutput struct {
	Result *draw.Result  `json:"result"`
	Text   string        `json:"text"`
	Entry  history.Entry `json:"history_entry"`
	Chart  chart.Summary `json:"chart"`
}

// quantityOr returns *v, or def when v is nil.
func quantityOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func requireLoaded(s *session.Session) error {
	if !s.Loaded() {
		return errors.NewPrecondition("carregue uma planilha primeiro")
	}
	return nil
}

// finish records a successful draw in the session. Persisting is best-effort:
// the draw already happened and is in the history.
func finish(s *session.Session, r *draw.Result) *DrawOutput {
	entry := s.Record(r)
	persist(s)
	s.Logger.Info("draw completed",
		zap.String("kind", string(r.Kind)),
		zap.String("column", r.Column),
		zap.Int("quantity", r.Quantity()))
	return &DrawOutput{
		Result: r,
		Text:   RenderResult(r),
		Entry:  entry,
		Chart:  s.Chart,
	}
}
