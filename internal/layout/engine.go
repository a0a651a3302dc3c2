// Package layout places words on a shared crossword grid.
//
// The engine is stateless: every call takes the committed word list and
// returns a new one, so independent puzzles never share anything.
package layout

import (
	"slices"
	"unicode/utf8"
)

// DefaultGridSize is the side of the square grid used when none is given.
const DefaultGridSize = 21

// Engine places words on a square grid of a fixed size.
type Engine struct {
	size int
}

// New returns an engine for a size x size grid.
func New(size int) *Engine {
	if size <= 0 {
		size = DefaultGridSize
	}
	return &Engine{size: size}
}

// Size returns the side of the engine's grid.
func (e *Engine) Size() int {
	return e.size
}

// Result is a successful placement. Words holds the existing words, shifted
// when the new word needed room above or to the left of the layout.
type Result struct {
	Words     []PlacedWord `json:"words"`
	Placement Placement    `json:"placement"`
	Connected bool         `json:"connected"`
}

// PlaceFirstWord places the first word of a puzzle at the top-left corner.
// The caller validates the word and assigns a different number if its
// counter is not at 1.
func (e *Engine) PlaceFirstWord(word, clue string) PlacedWord {
	return Placement{Direction: Across}.Place(word, clue, 1)
}

// FindPlacement finds where word can join existing. Crossing placements are
// tried first and the one with the smallest bounding box wins, earliest
// found on ties. Failing that the word is set apart below or to the right of
// the layout. existing is never modified.
func (e *Engine) FindPlacement(existing []PlacedWord, word string) (Result, error) {
	if len(existing) == 0 {
		if utf8.RuneCountInString(word) > e.size {
			return Result{}, ErrBoundsExceeded
		}
		first := e.PlaceFirstWord(word, "")
		return Result{Words: []PlacedWord{}, Placement: first.Placement(), Connected: true}, nil
	}

	grid, err := newScratch(existing)
	if err != nil {
		return Result{}, err
	}

	letters := []rune(word)
	base := Bounds(existing)

	var (
		best      Result
		bestScore int
		found     bool
		clipped   bool
	)
	for _, p := range intersections(existing, letters) {
		if !grid.fits(letters, p) {
			continue
		}

		box := base.union(p.rect(len(letters)))
		dr, dc := box.normalizingShift()
		if !box.offset(dr, dc).within(e.size) {
			clipped = true
			continue
		}

		score := -box.Area()
		if found && score <= bestScore {
			continue
		}
		best = Result{
			Words:     shiftAll(existing, dr, dc),
			Placement: p.shifted(dr, dc),
			Connected: true,
		}
		bestScore, found = score, true
	}
	if found {
		return best, nil
	}

	if r, ok := e.disconnected(existing, base, len(letters)); ok {
		return r, nil
	}
	if clipped {
		return Result{}, ErrBoundsExceeded
	}
	return Result{}, ErrNoLegalPlacement
}

// disconnected sets a word of n letters two rows below the layout, or
// failing that two columns to its right, leaving an empty line between.
func (e *Engine) disconnected(existing []PlacedWord, box Rect, n int) (Result, bool) {
	below := Placement{Row: box.MaxRow + 2, Col: box.MinCol, Direction: Across}
	right := Placement{Row: box.MinRow, Col: box.MaxCol + 2, Direction: Down}

	for _, p := range []Placement{below, right} {
		if p.rect(n).within(e.size) {
			return Result{Words: slices.Clone(existing), Placement: p}, true
		}
	}
	return Result{}, false
}

func shiftAll(words []PlacedWord, dr, dc int) []PlacedWord {
	out := make([]PlacedWord, len(words))
	for i, w := range words {
		out[i] = w.shifted(dr, dc)
	}
	return out
}
