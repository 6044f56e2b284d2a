// Package draw implements the four draw operations: plain, ranked, group
// partition and category-filtered.
//
// Sampling is uniform without replacement. An Engine built without a source
// uses the runtime-seeded global generator, so every process draws from fresh
// entropy; tests pass a seeded *rand.Rand.
package draw

import (
	"math/rand/v2"
	"time"

	"github.com/hpungsan/sorteador/internal/errors"
)

// Engine performs draws over an item list.
type Engine struct {
	rng *rand.Rand
	now func() time.Time
}

// NewEngine returns an Engine. rng may be nil.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{rng: rng, now: time.Now}
}

// WithClock overrides the timestamp source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) intN(n int) int {
	if e.rng != nil {
		return e.rng.IntN(n)
	}
	return rand.IntN(n)
}

// sample returns n names picked without replacement, in sampling order.
func (e *Engine) sample(names []string, n int) []string {
	pool := append([]string(nil), names...)
	for i := 0; i < n; i++ {
		j := i + e.intN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n:n]
}

// shuffle returns a uniformly permuted copy of names.
func (e *Engine) shuffle(names []string) []string {
	return e.sample(names, len(names))
}

func requireItems(items []Item) error {
	if len(items) == 0 {
		return errors.NewPrecondition("carregue um Excel primeiro")
	}
	return nil
}

func checkRange(what string, v, max int) error {
	if v < 1 || v > max {
		return errors.NewOutOfRange(what, v, 1, max)
	}
	return nil
}

// Plain draws n names from all items.
func (e *Engine) Plain(items []Item, column string, n int) (*Result, error) {
	if err := requireItems(items); err != nil {
		return nil, err
	}
	if err := checkRange("quantidade", n, len(items)); err != nil {
		return nil, err
	}
	return &Result{
		Kind:      KindPlain,
		Timestamp: e.now(),
		Column:    column,
		Items:     e.sample(Names(items), n),
	}, nil
}

// Ranked draws n names where position encodes rank, annotated by prizes.
func (e *Engine) Ranked(items []Item, column string, n int, prizes PrizeSource) (*Result, error) {
	if err := requireItems(items); err != nil {
		return nil, err
	}
	if err := checkRange("quantidade", n, len(items)); err != nil {
		return nil, err
	}
	if prizes == nil {
		prizes = NoPrizes{}
	}
	drawn := e.sample(Names(items), n)
	list := prizes.Prizes(n)
	if len(list) > n {
		list = list[:n]
	}
	if len(list) == 0 {
		list = nil
	}
	return &Result{
		Kind:      KindRanked,
		Timestamp: e.now(),
		Column:    column,
		Items:     drawn,
		Prizes:    list,
	}, nil
}

// Groups shuffles all items once and deals them round-robin into k groups.
func (e *Engine) Groups(items []Item, column string, k int) (*Result, error) {
	if err := requireItems(items); err != nil {
		return nil, err
	}
	if err := checkRange("número de grupos", k, len(items)); err != nil {
		return nil, err
	}
	groups := make([][]string, k)
	for i, name := range e.shuffle(Names(items)) {
		groups[i%k] = append(groups[i%k], name)
	}
	return &Result{
		Kind:      KindGrouped,
		Timestamp: e.now(),
		Column:    column,
		Groups:    groups,
	}, nil
}

// Categorized draws n names among items whose category equals category.
// An empty category or NoCategory falls back to Plain over all items.
func (e *Engine) Categorized(items []Item, column, category string, n int) (*Result, error) {
	if err := requireItems(items); err != nil {
		return nil, err
	}
	if category == "" || category == NoCategory {
		return e.Plain(items, column, n)
	}

	var filtered []string
	for _, it := range items {
		if it.Category == category {
			filtered = append(filtered, it.Name)
		}
	}
	if len(filtered) == 0 {
		return nil, errors.NewEmptySet(category)
	}
	if err := checkRange("quantidade", n, len(filtered)); err != nil {
		return nil, err
	}
	return &Result{
		Kind:      KindCategorized,
		Timestamp: e.now(),
		Column:    column,
		Category:  category,
		Items:     e.sample(filtered, n),
	}, nil
}

// CountInCategory returns how many items carry category.
func CountInCategory(items []Item, category string) int {
	if category == "" || category == NoCategory {
		return len(items)
	}
	count := 0
	for _, it := range items {
		if it.Category == category {
			count++
		}
	}
	return count
}
