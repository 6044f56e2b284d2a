package ops

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/sorteador/internal/db"
	"github.com/hpungsan/sorteador/internal/errors"
	"github.com/hpungsan/sorteador/internal/export"
	"github.com/hpungsan/sorteador/internal/session"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: <documents_dir>/Resultados_Sorteio_<timestamp>.xlsx
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Kind       string `json:"kind"`
	ExportedAt int64  `json:"exported_at"`
	Message    string `json:"message"`
}

// Export writes the last result to a new spreadsheet.
func Export(s *session.Session, input ExportInput) (*ExportOutput, error) {
	if s.Last == nil {
		return nil, errors.NewPrecondition("nenhum resultado para exportar")
	}

	now := time.Now()
	target := strings.TrimSpace(input.Path)
	if target == "" {
		dir, err := s.Config.Documents()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		target = export.DefaultPath(dir, now)
	}
	target, err := ResolvePath(export.EnsureExtension(target), PathCheckWrite)
	if err != nil {
		return nil, err
	}

	written, err := export.Write(target, s.Last)
	if err != nil {
		return nil, err
	}

	if s.DB != nil {
		if _, err := db.RecordExport(s.DB, written, s.Last.Kind); err != nil {
			s.Logger.Warn("failed to record export", zap.Error(err))
		}
	}
	s.Logger.Info("result exported", zap.String("path", written), zap.String("kind", string(s.Last.Kind)))

	return &ExportOutput{
		Path:       written,
		Kind:       string(s.Last.Kind),
		ExportedAt: now.Unix(),
		Message:    "Resultados exportados para:\n" + written,
	}, nil
}
