package ops

import (
	"go.uber.org/zap"

	"github.com/hpungsan/sorteador/internal/db"
	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/session"
)

// StatusOutput summarizes the session.
type StatusOutput struct {
	Source         string     `json:"source,omitempty"`
	Column         string     `json:"column,omitempty"`
	CategoryColumn string     `json:"category_column"`
	Columns        []string   `json:"columns"`
	Count          int        `json:"count"`
	Categories     []string   `json:"categories"`
	HasResult      bool       `json:"has_result"`
	LastKind       draw.Kind  `json:"last_kind,omitempty"`
	HistoryCount   int        `json:"history_count"`
	HistoryPath    string     `json:"history_path"`
	LastExport     *db.Export `json:"last_export,omitempty"`
	Exports        int        `json:"exports"`
	Message        string     `json:"message"`
}

// Status reports what is loaded and what can be done next.
func Status(s *session.Session) *StatusOutput {
	out := &StatusOutput{
		Source:         s.Source,
		Column:         s.Column,
		CategoryColumn: s.CategoryColumn,
		Columns:        nonNil(s.Columns),
		Count:          len(s.Items),
		Categories:     nonNil(s.Categories),
		HasResult:      s.Last != nil,
		HistoryCount:   s.History.Len(),
		HistoryPath:    s.History.Path(),
	}
	if s.Last != nil {
		out.LastKind = s.Last.Kind
	}

	if s.DB != nil {
		latest, err := db.LatestExport(s.DB)
		if err != nil {
			s.Logger.Warn("failed to read export log", zap.Error(err))
		}
		out.LastExport = latest
		if n, err := db.CountExports(s.DB); err == nil {
			out.Exports = n
		}
	}

	switch {
	case s.Loaded():
		out.Message = "Planilha carregada: " + s.Source
	case s.Source != "":
		out.Message = "Planilha indisponível: " + s.Source
	default:
		out.Message = "Nenhuma planilha carregada"
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
