// Package session holds the state shared by every user action: the loaded
// items, the selected column, the last result and the history log.
package session

import (
	"database/sql"
	"sync"

	"go.uber.org/zap"

	"github.com/hpungsan/sorteador/internal/chart"
	"github.com/hpungsan/sorteador/internal/config"
	"github.com/hpungsan/sorteador/internal/db"
	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/errors"
	"github.com/hpungsan/sorteador/internal/history"
	"github.com/hpungsan/sorteador/internal/logging"
	"github.com/hpungsan/sorteador/internal/sheet"
)

// Session is the explicit context passed to every operation.
//
// Operations do not lock. Surfaces that serve concurrent requests (web, MCP)
// hold the embedded mutex for the duration of one action.
type Session struct {
	sync.Mutex

	Config *config.Config
	Logger *zap.Logger
	Engine *draw.Engine

	// DB persists Source, Column, CategoryColumn and Last between CLI
	// invocations. It may be nil.
	DB *sql.DB

	Source         string
	Column         string
	CategoryColumn string
	Columns        []string
	Items          []draw.Item
	Categories     []string
	Last           *draw.Result
	Chart          chart.Summary

	History *history.Log

	workbook *sheet.Workbook
}

// New returns an empty session. A nil logger is replaced with a no-op logger
// and a nil engine with one backed by the global random source.
func New(cfg *config.Config, hist *history.Log, database *sql.DB, logger *zap.Logger) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if hist == nil {
		hist = history.New("")
	}
	return &Session{
		Config:         cfg,
		Logger:         logging.OrNop(logger),
		Engine:         draw.NewEngine(nil),
		DB:             database,
		CategoryColumn: cfg.CategoryColumn,
		History:        hist,
		Chart:          chart.Summarize(nil, ""),
	}
}

// Loaded reports whether items are available for drawing.
func (s *Session) Loaded() bool {
	return len(s.Items) > 0
}

// Open reads the workbook at path and selects column (the first available
// column when empty). The session is only modified on success.
func (s *Session) Open(path, column string) error {
	wb, err := sheet.Open(path)
	if err != nil {
		return err
	}
	if column == "" {
		column = wb.Columns()[0]
	}
	items, err := wb.Items(column, s.categoryColumn())
	if err != nil {
		return err
	}

	s.workbook = wb
	s.Source = path
	s.Columns = wb.Columns()
	s.setItems(column, items)
	return nil
}

// SelectColumn reloads items for another column of the current source.
func (s *Session) SelectColumn(column string) error {
	if s.Source == "" {
		return errors.NewPrecondition("nenhuma planilha carregada")
	}
	if s.workbook == nil {
		wb, err := sheet.Open(s.Source)
		if err != nil {
			return err
		}
		s.workbook = wb
		s.Columns = wb.Columns()
	}
	items, err := s.workbook.Items(column, s.categoryColumn())
	if err != nil {
		return err
	}
	s.setItems(column, items)
	return nil
}

// Header returns the header text of the selected column.
func (s *Session) Header() string {
	if s.workbook == nil {
		return ""
	}
	return s.workbook.Header(s.Column)
}

// Headers maps each available column to its header text.
func (s *Session) Headers() map[string]string {
	out := make(map[string]string, len(s.Columns))
	if s.workbook == nil {
		return out
	}
	for _, c := range s.Columns {
		out[c] = s.workbook.Header(c)
	}
	return out
}

func (s *Session) categoryColumn() string {
	if s.CategoryColumn != "" {
		return s.CategoryColumn
	}
	return s.Config.CategoryColumn
}

func (s *Session) setItems(column string, items []draw.Item) {
	s.Column = column
	s.Items = items
	s.Categories = sheet.Categories(items)
	s.Chart = chart.Summarize(items, column)
}

// Record makes r the last result and appends it to the history.
func (s *Session) Record(r *draw.Result) history.Entry {
	s.Last = r
	e := history.FromResult(r)
	s.History.Append(e)
	s.Chart = chart.Summarize(s.Items, s.Column)
	return e
}

// Restore reloads persisted state from the database. The stored source is
// reopened; if that fails the items stay empty but the last result is kept.
func (s *Session) Restore() error {
	if s.DB == nil {
		return nil
	}
	st, err := db.LoadState(s.DB)
	if err != nil {
		if !errors.Is(err, errors.ErrCorruptState) {
			return err
		}
		s.Logger.Warn("discarding unreadable last result", zap.Error(err))
	}

	if st.CategoryColumn != "" {
		s.CategoryColumn = st.CategoryColumn
	}
	s.Last = st.Last
	if st.Source == "" {
		return nil
	}
	if err := s.Open(st.Source, st.Column); err != nil {
		s.Logger.Warn("could not reopen spreadsheet",
			zap.String("path", st.Source), zap.Error(err))
		s.Source = st.Source
		s.Column = st.Column
	}
	return nil
}

// Persist stores the restorable part of the session.
func (s *Session) Persist() error {
	if s.DB == nil {
		return nil
	}
	return db.SaveState(s.DB, db.State{
		Source:         s.Source,
		Column:         s.Column,
		CategoryColumn: s.CategoryColumn,
		Last:           s.Last,
	})
}

// Close persists the session and writes the history file. Failures are
// logged and the first one is returned.
func (s *Session) Close() error {
	var first error
	if err := s.Persist(); err != nil {
		s.Logger.Error("failed to persist session", zap.Error(err))
		first = err
	}
	if s.History.Path() == "" || s.History.Removed() {
		return first
	}
	if err := s.History.Save(); err != nil {
		s.Logger.Error("failed to save history",
			zap.String("path", s.History.Path()), zap.Error(err))
		if first == nil {
			first = err
		}
	}
	return first
}
