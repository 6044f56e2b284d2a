package ops

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/sorteador/internal/chart"
	"github.com/hpungsan/sorteador/internal/errors"
	"github.com/hpungsan/sorteador/internal/session"
)

// LoadInput contains parameters for the Load operation.
type LoadInput struct {
	Path           string // required
	Column         string // optional, default: first column with data
	CategoryColumn string // optional, default: session/config category column
}

// LoadOutput describes the items now available for drawing.
type LoadOutput struct {
	Path       string        `json:"path"`
	Column     string        `json:"column"`
	Header     string        `json:"header"`
	Columns    []string      `json:"columns"`
	Count      int           `json:"count"`
	Categories []string      `json:"categories"`
	Message    string        `json:"message"`
	Chart      chart.Summary `json:"chart"`
}

// Load reads a spreadsheet into the session.
func Load(s *session.Session, input LoadInput) (*LoadOutput, error) {
	path, err := ResolvePath(input.Path, PathCheckRead)
	if err != nil {
		return nil, err
	}

	prevCategory := s.CategoryColumn
	if c := strings.ToUpper(strings.TrimSpace(input.CategoryColumn)); c != "" {
		s.CategoryColumn = c
	}
	if err := s.Open(path, strings.ToUpper(strings.TrimSpace(input.Column))); err != nil {
		s.CategoryColumn = prevCategory
		return nil, err
	}
	persist(s)

	s.Logger.Info("spreadsheet loaded",
		zap.String("path", path),
		zap.String("column", s.Column),
		zap.Int("items", len(s.Items)))

	out := loadOutput(s)
	out.Message = fmt.Sprintf("Planilha carregada com sucesso!\nLocal: %s\n%d itens encontrados.", path, len(s.Items))
	return out, nil
}

// SelectColumnInput contains parameters for the SelectColumn operation.
type SelectColumnInput struct {
	Column string // required
}

// SelectColumn switches the drawing column of the loaded spreadsheet.
func SelectColumn(s *session.Session, input SelectColumnInput) (*LoadOutput, error) {
	column := strings.ToUpper(strings.TrimSpace(input.Column))
	if column == "" {
		return nil, errors.NewInvalidRequest("column is required")
	}
	if err := s.SelectColumn(column); err != nil {
		return nil, err
	}
	persist(s)

	s.Logger.Info("column selected", zap.String("column", column), zap.Int("items", len(s.Items)))

	out := loadOutput(s)
	out.Message = fmt.Sprintf("Coluna %s carregada com sucesso!", column)
	return out, nil
}

// ColumnInfo describes one selectable column.
type ColumnInfo struct {
	Letter   string `json:"letter"`
	Header   string `json:"header"`
	Selected bool   `json:"selected"`
}

// ColumnsOutput lists the columns of the loaded spreadsheet.
type ColumnsOutput struct {
	Path    string       `json:"path"`
	Columns []ColumnInfo `json:"columns"`
}

// Columns lists the columns of the loaded spreadsheet with their headers.
func Columns(s *session.Session) (*ColumnsOutput, error) {
	if s.Source == "" {
		return nil, errors.NewPrecondition("nenhuma planilha carregada")
	}
	headers := s.Headers()
	out := &ColumnsOutput{Path: s.Source, Columns: make([]ColumnInfo, 0, len(s.Columns))}
	for _, c := range s.Columns {
		out.Columns = append(out.Columns, ColumnInfo{
			Letter:   c,
			Header:   headers[c],
			Selected: c == s.Column,
		})
	}
	return out, nil
}

func loadOutput(s *session.Session) *LoadOutput {
	categories := s.Categories
	if categories == nil {
		categories = []string{}
	}
	return &LoadOutput{
		Path:       s.Source,
		Column:     s.Column,
		Header:     s.Header(),
		Columns:    s.Columns,
		Count:      len(s.Items),
		Categories: categories,
		Chart:      s.Chart,
	}
}

func persist(s *session.Session) {
	if err := s.Persist(); err != nil {
		s.Logger.Warn("failed to persist session", zap.Error(err))
	}
}
