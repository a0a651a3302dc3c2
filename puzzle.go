package main

import (
	"slices"
	"time"

	"github.com/bodul/collabcross/internal/layout"
)

// Puzzle is a saved crossword: a title and the words placed on its grid.
// The grid and clue lists are never stored; they are rebuilt from Words.
type Puzzle struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Words     []layout.PlacedWord `json:"words"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (p *Puzzle) clone() *Puzzle {
	cp := *p
	cp.Words = slices.Clone(p.Words)
	return &cp
}
