package chart

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hpungsan/sorteador/internal/errors"
)

// SheetName is the sheet holding the distribution table and chart.
const SheetName = "Distribuição"

// WriteWorkbook saves the summary table with a native chart: a pie for
// categories, a column chart for initial letters. It returns the path written.
func WriteWorkbook(path string, s Summary) (string, error) {
	if s.Mode == ModeEmpty || len(s.Slices) == 0 {
		return "", errors.NewPrecondition("nenhum dado carregado")
	}
	if strings.TrimSpace(path) == "" {
		return "", errors.NewInvalidRequest("path is required")
	}
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", classify(path, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return "", errors.NewInternal(err)
	}

	header := []any{labelHeader(s.Mode), "Quantidade", "Percentual"}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return "", errors.NewInternal(err)
	}
	for i, sl := range s.Slices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", errors.NewInternal(err)
		}
		row := []any{sl.Label, sl.Count, sl.Percent}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return "", errors.NewInternal(err)
		}
	}

	if err := f.AddChart(SheetName, "E2", newChart(s)); err != nil {
		return "", errors.NewInternal(err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", classify(path, err)
	}
	return path, nil
}

func labelHeader(m Mode) string {
	if m == ModeCategory {
		return "Classificação"
	}
	return "Letra"
}

func newChart(s Summary) *excelize.Chart {
	last := len(s.Slices) + 1
	ref := "'" + SheetName + "'!"
	series := []excelize.ChartSeries{{
		Name:       ref + "$B$1",
		Categories: fmt.Sprintf("%s$A$2:$A$%d", ref, last),
		Values:     fmt.Sprintf("%s$B$2:$B$%d", ref, last),
	}}

	c := &excelize.Chart{
		Series: series,
		Title:  []excelize.RichTextRun{{Text: strings.ReplaceAll(s.Title, "\n", " - ")}},
		Legend: excelize.ChartLegend{Position: "right"},
	}
	if s.Mode == ModeCategory {
		c.Type = excelize.Pie
		c.PlotArea = excelize.ChartPlotArea{ShowPercent: true}
	} else {
		c.Type = excelize.Col
		c.Legend = excelize.ChartLegend{Position: "none"}
		c.PlotArea = excelize.ChartPlotArea{ShowVal: true}
	}
	return c
}

func classify(path string, err error) error {
	if stderrors.Is(err, fs.ErrPermission) {
		return errors.NewPermissionDenied("permissão negada ao gravar o gráfico", path, err)
	}
	return errors.NewIO("falha ao gravar o gráfico", err)
}
