package draw

import (
	"fmt"
	"strings"

	"github.com/hpungsan/sorteador/internal/errors"
)

// PrizeMode selects how ranked draws are annotated.
type PrizeMode string

const (
	PrizeNone    PrizeMode = "none"
	PrizeDefault PrizeMode = "default"
	PrizeCustom  PrizeMode = "custom"
)

// ParsePrizeMode validates a prize mode string. Empty means none.
func ParsePrizeMode(s string) (PrizeMode, error) {
	switch PrizeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", PrizeNone:
		return PrizeNone, nil
	case PrizeDefault:
		return PrizeDefault, nil
	case PrizeCustom:
		return PrizeCustom, nil
	default:
		return "", errors.NewInvalidRequest(fmt.Sprintf("prize mode must be one of: none, default, custom (got %q)", s))
	}
}

// PrizeSource produces the prize list for a ranked draw of n items.
type PrizeSource interface {
	Prizes(n int) []string
}

// Prompter asks for the prize of one rank. ok is false when the prompt was
// cancelled.
type Prompter interface {
	PromptPrize(rank int) (prize string, ok bool)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(rank int) (string, bool)

// PromptPrize implements Prompter.
func (f PrompterFunc) PromptPrize(rank int) (string, bool) { return f(rank) }

// PromptList answers prompts from a fixed list, one entry per rank.
// Missing or blank entries behave like a cancelled prompt.
type PromptList []string

// PromptPrize implements Prompter.
func (l PromptList) PromptPrize(rank int) (string, bool) {
	if rank < 1 || rank > len(l) {
		return "", false
	}
	return l[rank-1], true
}

// NoPrizes leaves every rank unprized.
type NoPrizes struct{}

// Prizes implements PrizeSource.
func (NoPrizes) Prizes(int) []string { return nil }

// DefaultPrizes is Gold, Silver, Bronze, then Honorable Mention k.
type DefaultPrizes struct{}

// Prizes implements PrizeSource.
func (DefaultPrizes) Prizes(n int) []string {
	base := []string{"Gold", "Silver", "Bronze"}
	prizes := make([]string, 0, n)
	for rank := 1; rank <= n; rank++ {
		if rank <= len(base) {
			prizes = append(prizes, base[rank-1])
			continue
		}
		prizes = append(prizes, fmt.Sprintf("Honorable Mention %d", rank))
	}
	return prizes
}

// CustomPrizes prompts once per rank. A cancelled or blank answer adds
// nothing and is not asked again, so the list can end up shorter than n and
// later answers move up to earlier positions.
type CustomPrizes struct {
	Prompter Prompter
}

// Prizes implements PrizeSource.
func (c CustomPrizes) Prizes(n int) []string {
	if c.Prompter == nil {
		return nil
	}
	var prizes []string
	for rank := 1; rank <= n; rank++ {
		prize, ok := c.Prompter.PromptPrize(rank)
		prize = strings.TrimSpace(prize)
		if ok && prize != "" {
			prizes = append(prizes, prize)
		}
	}
	return prizes
}

// SourceFor maps a PrizeMode to its PrizeSource.
func SourceFor(mode PrizeMode, prompter Prompter) PrizeSource {
	switch mode {
	case PrizeDefault:
		return DefaultPrizes{}
	case PrizeCustom:
		return CustomPrizes{Prompter: prompter}
	default:
		return NoPrizes{}
	}
}
