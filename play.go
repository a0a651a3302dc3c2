package main

import (
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bodul/collabcross/internal/layout"
)

var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrBlackCell   = errors.New("cell is not part of any word")
	ErrBadLetter   = errors.New("value must be a single letter or empty")
)

// CellRef identifies a grid square.
type CellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CheckResult reports how far a solver has got.
type CheckResult struct {
	Complete bool      `json:"complete"`
	Solved   bool      `json:"solved"`
	Wrong    []CellRef `json:"wrong"`
}

// PlayStats summarizes progress on a play session.
type PlayStats struct {
	SquaresFilled int `json:"squares_filled"`
	Squares       int `json:"squares"`
	WordsSolved   int `json:"words_solved"`
	Words         int `json:"words"`
}

// PlaySession is a saved puzzle being solved. Words are numbered by
// position, as on a printed grid, independent of the creator's numbers.
type PlaySession struct {
	ID        string       `json:"id"`
	PuzzleID  string       `json:"puzzle_id"`
	Title     string       `json:"title"`
	Board     layout.Grid  `json:"board"`
	Clues     layout.Clues `json:"clues"`
	CreatedAt time.Time    `json:"created_at"`

	words   []layout.PlacedWord
	answers [][]string

	mu    sync.Mutex
	state [][]string
}

func newPlaySession(id string, p *Puzzle, size int) *PlaySession {
	words := layout.Renumber(p.Words)
	view := layout.Rebuild(words, size)

	board := make(layout.Grid, len(view.Grid))
	answers := make([][]string, len(view.Grid))
	state := make([][]string, len(view.Grid))
	for r, row := range view.Grid {
		board[r] = make([]layout.Cell, len(row))
		answers[r] = make([]string, len(row))
		state[r] = make([]string, len(row))
		for c, cell := range row {
			answers[r][c] = cell.Letter
			cell.Letter = ""
			board[r][c] = cell
		}
	}

	return &PlaySession{
		ID:        id,
		PuzzleID:  p.ID,
		Title:     p.Title,
		Board:     board,
		Clues:     layout.Clues{Across: hideAnswers(view.Clues.Across), Down: hideAnswers(view.Clues.Down)},
		CreatedAt: time.Now(),
		words:     words,
		answers:   answers,
		state:     state,
	}
}

func hideAnswers(clues []layout.Clue) []layout.Clue {
	out := make([]layout.Clue, len(clues))
	for i, c := range clues {
		c.Answer = ""
		out[i] = c
	}
	return out
}

// SetCell writes a letter, or clears the square when value is empty.
func (g *PlaySession) SetCell(row, col int, value string) error {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value != "" && (utf8.RuneCountInString(value) != 1 || !isLetter(value)) {
		return ErrBadLetter
	}
	if row < 0 || row >= len(g.answers) || col < 0 || col >= len(g.answers[row]) {
		return ErrOutOfBounds
	}
	if g.answers[row][col] == "" {
		return ErrBlackCell
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.state[row][col] = value
	return nil
}

func isLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

// GetState returns a copy of the current letters.
func (g *PlaySession) GetState() [][]string {
	g.mu.Lock()
	defer g.mu.Unlock()

	cp := make([][]string, len(g.state))
	for i, row := range g.state {
		cp[i] = make([]string, len(row))
		copy(cp[i], row)
	}
	return cp
}

// Check compares the filled squares with the answers. Complete is set once
// every letter square holds something.
func (g *PlaySession) Check() CheckResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	res := CheckResult{Complete: true, Wrong: []CellRef{}}
	for r, row := range g.answers {
		for c, want := range row {
			if want == "" {
				continue
			}
			got := g.state[r][c]
			if got == "" {
				res.Complete = false
				continue
			}
			if got != want {
				res.Wrong = append(res.Wrong, CellRef{Row: r, Col: c})
			}
		}
	}
	res.Solved = res.Complete && len(res.Wrong) == 0
	return res
}

// Stats counts filled squares and correctly completed words.
func (g *PlaySession) Stats() PlayStats {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := PlayStats{Words: len(g.words)}
	for r, row := range g.answers {
		for c, want := range row {
			if want == "" {
				continue
			}
			st.Squares++
			if g.state[r][c] != "" {
				st.SquaresFilled++
			}
		}
	}

	for _, w := range g.words {
		solved := true
		for i := range w.Len() {
			r, c := w.At(i)
			if r < 0 || r >= len(g.state) || c < 0 || c >= len(g.state[r]) || g.state[r][c] != g.answers[r][c] {
				solved = false
				break
			}
		}
		if solved {
			st.WordsSolved++
		}
	}
	return st
}
