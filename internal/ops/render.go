package ops

import (
	"fmt"
	"strings"

	"github.com/hpungsan/sorteador/internal/draw"
)

// RenderResult formats a result the way the result panel shows it.
func RenderResult(r *draw.Result) string {
	if r == nil {
		return ""
	}

	var b strings.Builder
	switch r.Kind {
	case draw.KindRanked:
		b.WriteString("RESULTADO COM COLOCAÇÃO:\n\n")
		for i, name := range r.Items {
			fmt.Fprintf(&b, "%dº lugar: %s", i+1, name)
			if prize, ok := r.PrizeFor(i + 1); ok {
				b.WriteString(" - Prêmio: " + prize)
			}
			b.WriteString("\n")
		}
	case draw.KindGrouped:
		b.WriteString("GRUPOS CRIADOS:\n\n")
		for i, group := range r.Groups {
			fmt.Fprintf(&b, "Grupo %d (%d itens):\n", i+1, len(group))
			b.WriteString(bullets(group))
			b.WriteString("\n\n")
		}
	case draw.KindCategorized:
		fmt.Fprintf(&b, "Itens da classificação '%s':\n\n", r.Category)
		b.WriteString(bullets(r.Items))
	default:
		b.WriteString("ITENS SORTEADOS:\n\n")
		b.WriteString(bullets(r.Items))
	}
	return b.String()
}

func bullets(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "• " + strings.Join(names, "\n• ")
}
