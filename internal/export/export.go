// Package export writes the last draw result to a new spreadsheet.
package export

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/errors"
)

// SheetName is the name of the single sheet in an exported workbook.
const SheetName = "Resultados"

// Header titles for each result body.
const (
	Title            = "RESULTADOS DO SORTEIO"
	PlainHeader      = "Itens Sorteados"
	RankedHeader     = "Itens Sorteados com Colocação"
	GroupedHeader    = "Grupos Criados"
	CategorizedTitle = "Itens da Classificação: "
)

// PermissionMessage is shown when the target is locked or not writable.
const PermissionMessage = "Permissão negada. Feche o arquivo se estiver aberto ou escolha outro local."

// DefaultPath returns dir/Resultados_Sorteio_<YYYYMMDD_HHMMSS>.xlsx.
func DefaultPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("Resultados_Sorteio_%s.xlsx", now.Format("20060102_150405")))
}

// EnsureExtension appends .xlsx unless path already ends with it.
func EnsureExtension(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return path
	}
	return path + ".xlsx"
}

// Write serializes r to a new workbook at path, creating parent directories
// and replacing any existing file. It returns the path actually written.
func Write(path string, r *draw.Result) (string, error) {
	if r == nil {
		return "", errors.NewPrecondition("nenhum resultado para exportar")
	}
	if strings.TrimSpace(path) == "" {
		return "", errors.NewInvalidRequest("path is required")
	}
	path = EnsureExtension(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", classify(path, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return "", errors.NewInternal(err)
	}

	w := &rowWriter{f: f}
	if err := writeResult(w, r); err != nil {
		return "", errors.NewInternal(err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 40); err != nil {
		return "", errors.NewInternal(err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", classify(path, err)
	}
	return path, nil
}

func classify(path string, err error) error {
	if stderrors.Is(err, fs.ErrPermission) {
		return errors.NewPermissionDenied(PermissionMessage, path, err)
	}
	return errors.NewIO("falha ao exportar resultados", err)
}

// writeResult lays out the header block followed by the body for r.Kind.
func writeResult(w *rowWriter, r *draw.Result) error {
	w.append(Title)
	w.append("Data:", r.Timestamp.Format("02/01/2006 15:04"))
	if r.Column != "" {
		w.append("Coluna:", r.Column)
	}
	if r.Kind == draw.KindCategorized {
		w.append("Classificação:", r.Category)
	}
	w.blank()

	switch r.Kind {
	case draw.KindRanked:
		w.append(RankedHeader)
		for i, name := range r.Items {
			label := fmt.Sprintf("%dº lugar: %s", i+1, name)
			if prize, ok := r.PrizeFor(i + 1); ok {
				w.append(label, "Prêmio: "+prize)
				continue
			}
			w.append(label)
		}
	case draw.KindGrouped:
		w.append(GroupedHeader)
		for i, group := range r.Groups {
			w.append(fmt.Sprintf("Grupo %d", i+1))
			for _, name := range group {
				w.append(name)
			}
			w.blank()
		}
	case draw.KindCategorized:
		w.append(CategorizedTitle + r.Category)
		for _, name := range r.Items {
			w.append(name)
		}
	default:
		w.append(PlainHeader)
		for _, name := range r.Items {
			w.append(name)
		}
	}
	return w.err
}

// rowWriter appends rows to the export sheet, keeping the first error.
type rowWriter struct {
	f   *excelize.File
	row int
	err error
}

func (w *rowWriter) append(values ...any) {
	w.row++
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(SheetName, cell, &values)
}

func (w *rowWriter) blank() {
	w.row++
}
