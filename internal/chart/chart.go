// Package chart summarizes the loaded items into a distribution suitable for
// a pie or bar chart.
package chart

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hpungsan/sorteador/internal/draw"
)

// Mode tells which attribute a Summary counts.
type Mode string

const (
	ModeEmpty    Mode = "empty"
	ModeCategory Mode = "category"
	ModeLetter   Mode = "letter"
)

// EmptyTitle is the title of a summary over no items.
const EmptyTitle = "Nenhum dado carregado"

// Slice is one bucket of the distribution.
type Slice struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Summary is the distribution of the loaded items.
type Summary struct {
	Mode   Mode    `json:"mode"`
	Title  string  `json:"title"`
	Column string  `json:"column,omitempty"`
	Total  int     `json:"total"`
	Slices []Slice `json:"slices"`
}

// Summarize counts items by category when more than one distinct category
// is present, and by uppercased initial letter otherwise.
func Summarize(items []draw.Item, column string) Summary {
	if len(items) == 0 {
		return Summary{Mode: ModeEmpty, Title: EmptyTitle, Column: column, Slices: []Slice{}}
	}

	if distinctCategories(items) > 1 {
		return build(ModeCategory, "Distribuição por Classificação", column, items, func(it draw.Item) (string, bool) {
			return it.Category, it.Category != ""
		})
	}
	return build(ModeLetter, "Distribuição por Letra Inicial", column, items, initial)
}

func distinctCategories(items []draw.Item) int {
	seen := make(map[string]struct{})
	for _, it := range items {
		if it.Category != "" {
			seen[it.Category] = struct{}{}
		}
	}
	return len(seen)
}

func initial(it draw.Item) (string, bool) {
	r, _ := utf8.DecodeRuneInString(it.Name)
	if r == utf8.RuneError {
		return "", false
	}
	return string(unicode.ToUpper(r)), true
}

func build(mode Mode, heading, column string, items []draw.Item, key func(draw.Item) (string, bool)) Summary {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, it := range items {
		label, ok := key(it)
		if !ok {
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
		total++
	}

	slices := make([]Slice, 0, len(order))
	for _, label := range order {
		slices = append(slices, Slice{
			Label:   label,
			Count:   counts[label],
			Percent: percent(counts[label], total),
		})
	}

	return Summary{
		Mode:   mode,
		Title:  fmt.Sprintf("%s\nColuna %s", heading, column),
		Column: column,
		Total:  total,
		Slices: slices,
	}
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)*1000/float64(total)) / 10
}

// Text renders the summary as a label/count/percent table.
func (s Summary) Text() string {
	if s.Mode == ModeEmpty {
		return s.Title + "\n"
	}
	var b strings.Builder
	b.WriteString(s.Title)
	b.WriteString("\n\n")
	for _, sl := range s.Slices {
		fmt.Fprintf(&b, "%s: %d (%.1f%%)\n", sl.Label, sl.Count, sl.Percent)
	}
	return b.String()
}
