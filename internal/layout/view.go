package layout

import (
	"cmp"
	"slices"
)

// Cell is one square of a rebuilt grid. Black squares hold no letter.
type Cell struct {
	Letter       string `json:"letter,omitempty"`
	Black        bool   `json:"black"`
	Number       int    `json:"number,omitempty"`
	AcrossNumber int    `json:"across_number,omitempty"`
	DownNumber   int    `json:"down_number,omitempty"`
}

// Grid is indexed [row][col].
type Grid [][]Cell

func (g Grid) inside(row, col int) bool {
	return row >= 0 && row < len(g) && col >= 0 && col < len(g[row])
}

// Clue is one entry of a clue list.
type Clue struct {
	Number int    `json:"number"`
	Text   string `json:"clue"`
	Answer string `json:"answer,omitempty"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

type Clues struct {
	Across []Clue `json:"across"`
	Down   []Clue `json:"down"`
}

// View is the grid and clue lists derived from a word list.
type View struct {
	Size  int   `json:"size"`
	Grid  Grid  `json:"grid"`
	Clues Clues `json:"clues"`
}

// Rebuild derives the grid and clue lists from words on a fresh size x size
// grid. It never reads earlier output; letters stamped later win and cells
// outside the grid are dropped.
func Rebuild(words []PlacedWord, size int) View {
	grid := make(Grid, size)
	for i := range grid {
		grid[i] = make([]Cell, size)
	}
	clues := Clues{Across: []Clue{}, Down: []Clue{}}

	for _, w := range words {
		for i, r := range []rune(w.Text) {
			row, col := w.At(i)
			if grid.inside(row, col) {
				grid[row][col].Letter = string(r)
			}
		}

		if grid.inside(w.Row, w.Col) {
			origin := &grid[w.Row][w.Col]
			if w.Direction == Down {
				origin.DownNumber = w.Number
			} else {
				origin.AcrossNumber = w.Number
			}
			if origin.Number == 0 {
				origin.Number = w.Number
			}
		}

		c := Clue{Number: w.Number, Text: w.Clue, Answer: w.Text, Row: w.Row, Col: w.Col}
		if w.Direction == Down {
			clues.Down = append(clues.Down, c)
		} else {
			clues.Across = append(clues.Across, c)
		}
	}

	for _, row := range grid {
		for c := range row {
			row[c].Black = row[c].Letter == ""
		}
	}

	byNumber := func(a, b Clue) int { return cmp.Compare(a.Number, b.Number) }
	slices.SortStableFunc(clues.Across, byNumber)
	slices.SortStableFunc(clues.Down, byNumber)

	return View{Size: size, Grid: grid, Clues: clues}
}

// Rebuild is Rebuild on the engine's grid size.
func (e *Engine) Rebuild(words []PlacedWord) View {
	return Rebuild(words, e.size)
}

// Renumber returns a copy of words numbered by position, the way a printed
// crossword is: word starts are numbered in reading order and an across and
// a down word starting on the same cell share a number.
func Renumber(words []PlacedWord) []PlacedWord {
	out := slices.Clone(words)

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		wa, wb := out[a], out[b]
		return cmp.Or(
			cmp.Compare(wa.Row, wb.Row),
			cmp.Compare(wa.Col, wb.Col),
			cmp.Compare(wa.Direction, wb.Direction),
		)
	})

	n := 0
	var last pos
	for _, i := range order {
		start := pos{out[i].Row, out[i].Col}
		if n == 0 || start != last {
			n++
			last = start
		}
		out[i].Number = n
	}
	return out
}
