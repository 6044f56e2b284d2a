package ops

import (
	"strings"

	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/session"
)

// DrawInput contains parameters for the Draw operation.
type DrawInput struct {
	Quantity *int // optional, default: config default_quantity
}

// Draw picks Quantity distinct names from the loaded items.
func Draw(s *session.Session, input DrawInput) (*DrawOutput, error) {
	if err := requireLoaded(s); err != nil {
		return nil, err
	}
	r, err := s.Engine.Plain(s.Items, s.Column, quantityOr(input.Quantity, s.Config.DefaultQuantity))
	if err != nil {
		return nil, err
	}
	return finish(s, r), nil
}

// RankedInput contains parameters for the Ranked operation.
type RankedInput struct {
	Quantity  *int           // optional, default: config default_quantity
	PrizeMode draw.PrizeMode // none, default or custom
	Prizes    []string       // custom mode answers, one per rank; blank entries skip a rank
	Prompter  draw.Prompter  // custom mode, interactive; takes precedence over Prizes
}

// Ranked draws names where the order is the placing, optionally with prizes.
func Ranked(s *session.Session, input RankedInput) (*DrawOutput, error) {
	if err := requireLoaded(s); err != nil {
		return nil, err
	}

	mode := input.PrizeMode
	if mode == "" {
		mode = draw.PrizeNone
	}
	prompter := input.Prompter
	if prompter == nil {
		prompter = draw.PromptList(input.Prizes)
	}

	r, err := s.Engine.Ranked(s.Items, s.Column, quantityOr(input.Quantity, s.Config.DefaultQuantity),
		draw.SourceFor(mode, prompter))
	if err != nil {
		return nil, err
	}
	return finish(s, r), nil
}

// GroupsInput contains parameters for the Groups operation.
type GroupsInput struct {
	Groups *int // optional, default: config default_groups
}

// Groups partitions every loaded item into balanced groups.
func Groups(s *session.Session, input GroupsInput) (*DrawOutput, error) {
	if err := requireLoaded(s); err != nil {
		return nil, err
	}
	r, err := s.Engine.Groups(s.Items, s.Column, quantityOr(input.Groups, s.Config.DefaultGroups))
	if err != nil {
		return nil, err
	}
	return finish(s, r), nil
}

// CategoryInput contains parameters for the Category operation.
type CategoryInput struct {
	Category string // empty or draw.NoCategory draws from every item
	Quantity *int   // optional, default: 1
}

// Category draws names restricted to one category.
func Category(s *session.Session, input CategoryInput) (*DrawOutput, error) {
	if err := requireLoaded(s); err != nil {
		return nil, err
	}
	r, err := s.Engine.Categorized(s.Items, s.Column, strings.TrimSpace(input.Category),
		quantityOr(input.Quantity, DefaultCategoryQuantity))
	if err != nil {
		return nil, err
	}
	return finish(s, r), nil
}
