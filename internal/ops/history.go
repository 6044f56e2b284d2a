package ops

import (
	"go.uber.org/zap"

	"github.com/hpungsan/sorteador/internal/history"
	"github.com/hpungsan/sorteador/internal/session"
)

// HistoryOutput lists past draws, most recent first.
type HistoryOutput struct {
	Path  string         `json:"path"`
	Count int            `json:"count"`
	Lines []history.Line `json:"lines"`
	Text  string         `json:"text"`
}

// History returns the rendered history.
func History(s *session.Session) *HistoryOutput {
	lines := s.History.Lines()
	if lines == nil {
		lines = []history.Line{}
	}
	return &HistoryOutput{
		Path:  s.History.Path(),
		Count: s.History.Len(),
		Lines: lines,
		Text:  s.History.Render(),
	}
}

// ClearHistoryOutput contains the result of the ClearHistory operation.
type ClearHistoryOutput struct {
	Cleared int    `json:"cleared"`
	Message string `json:"message"`
}

// ClearHistory empties the history and removes its file.
func ClearHistory(s *session.Session) (*ClearHistoryOutput, error) {
	n := s.History.Len()
	if err := s.History.Clear(); err != nil {
		return nil, err
	}
	s.Logger.Info("history cleared", zap.Int("entries", n))
	return &ClearHistoryOutput{Cleared: n, Message: "Histórico limpo com sucesso!"}, nil
}
