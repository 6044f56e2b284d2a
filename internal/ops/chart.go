package ops

import (
	"strings"

	"github.com/hpungsan/sorteador/internal/chart"
	"github.com/hpungsan/sorteador/internal/session"
)

// ChartInput contains parameters for the Chart operation.
type ChartInput struct {
	XLSXPath string // optional, also write the chart to a workbook
}

// ChartOutput is the distribution of the loaded items.
type ChartOutput struct {
	chart.Summary
	Text string `json:"text"`
	Path string `json:"path,omitempty"`
}

// Chart returns the current distribution and optionally saves it as a
// workbook with a native chart.
func Chart(s *session.Session, input ChartInput) (*ChartOutput, error) {
	out := &ChartOutput{Summary: s.Chart, Text: s.Chart.Text()}
	if strings.TrimSpace(input.XLSXPath) == "" {
		return out, nil
	}

	path, err := ResolvePath(input.XLSXPath, PathCheckWrite)
	if err != nil {
		return nil, err
	}
	written, err := chart.WriteWorkbook(path, s.Chart)
	if err != nil {
		return nil, err
	}
	out.Path = written
	return out, nil
}
