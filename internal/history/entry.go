package history

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/sorteador/internal/draw"
)

// TimestampLayout is the on-disk timestamp format (DD/MM/YYYY HH:MM).
const TimestampLayout = "02/01/2006 15:04"

// Kind is the persisted "tipo" of an entry.
type Kind string

const (
	KindPlain       Kind = "Sorteio"
	KindRanked      Kind = "Sorteio com Colocação"
	KindGrouped     Kind = "Grupos"
	KindCategorized Kind = "Sorteio por Classificação"
)

// Entry is one past operation. JSON keys match files written by earlier
// versions, so old logs load unchanged; entries from those versions have no ID.
type Entry struct {
	ID         string   `json:"id,omitempty"`
	Timestamp  string   `json:"data,omitempty"`
	Kind       Kind     `json:"tipo,omitempty"`
	Quantity   *int     `json:"quantidade,omitempty"`
	Column     string   `json:"coluna,omitempty"`
	Prized     *bool    `json:"premiados,omitempty"`
	Items      []string `json:"itens,omitempty"`
	GroupCount *int     `json:"num_grupos,omitempty"`
	GroupSizes []int    `json:"itens_por_grupo,omitempty"`
	Category   string   `json:"classificacao,omitempty"`
}

// FromResult summarizes a draw result as a history entry.
func FromResult(r *draw.Result) Entry {
	e := Entry{
		ID:        ulid.Make().String(),
		Timestamp: r.Timestamp.Format(TimestampLayout),
	}

	switch r.Kind {
	case draw.KindRanked:
		prized := len(r.Prizes) > 0
		e.Kind = KindRanked
		e.Quantity = intPtr(len(r.Items))
		e.Column = r.Column
		e.Prized = &prized
		e.Items = r.Items
	case draw.KindGrouped:
		e.Kind = KindGrouped
		e.GroupCount = intPtr(len(r.Groups))
		e.Column = r.Column
		e.GroupSizes = r.GroupSizes()
	case draw.KindCategorized:
		e.Kind = KindCategorized
		e.Category = r.Category
		e.Quantity = intPtr(len(r.Items))
		e.Items = r.Items
	default:
		e.Kind = KindPlain
		e.Quantity = intPtr(len(r.Items))
		e.Column = r.Column
		e.Items = r.Items
	}
	return e
}

// Summary renders the entry the way the history tab shows it. Unknown or
// missing kinds render as a plain draw.
func (e Entry) Summary() string {
	ts := e.Timestamp
	if ts == "" {
		ts = "Data desconhecida"
	}

	var body string
	switch e.Kind {
	case KindGrouped:
		body = fmt.Sprintf("%s grupos (Coluna: %s, Itens por grupo: %s)",
			intOr(e.GroupCount), orUnknown(e.Column), formatSizes(e.GroupSizes))
	case KindCategorized:
		category := e.Category
		if category == "" {
			category = "Desconhecida"
		}
		body = fmt.Sprintf("%s itens da classificação '%s'", intOr(e.Quantity), category)
	case KindRanked:
		body = fmt.Sprintf("%s itens sorteados com colocação (Coluna: %s)", intOr(e.Quantity), orUnknown(e.Column))
		if e.Prized != nil && *e.Prized {
			body += " [COM PRÊMIOS]"
		}
	default:
		body = fmt.Sprintf("%s itens sorteados (Coluna: %s)", intOr(e.Quantity), orUnknown(e.Column))
	}
	return ts + " - " + body
}

func intPtr(v int) *int { return &v }

func intOr(v *int) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *v)
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

func formatSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
