package layout

import "fmt"

type pos struct {
	row, col int
}

// square is one occupied cell of a scratch grid.
type square struct {
	letter rune
	across bool
	down   bool
}

func (s square) runs(d Direction) bool {
	if d == Down {
		return s.down
	}
	return s.across
}

// scratch is a sparse, unbounded grid used while searching. Coordinates may
// be negative; the layout is only normalized once a candidate survives.
type scratch map[pos]square

func newScratch(words []PlacedWord) (scratch, error) {
	s := make(scratch)
	for _, w := range words {
		for i, r := range []rune(w.Text) {
			row, col := w.At(i)
			p := pos{row, col}
			sq, ok := s[p]
			if ok && sq.letter != r {
				return nil, fmt.Errorf("%w: %q has %q at (%d,%d) where %q is already placed",
					ErrInconsistentLayout, w.Text, r, row, col, sq.letter)
			}
			sq.letter = r
			if w.Direction == Down {
				sq.down = true
			} else {
				sq.across = true
			}
			s[p] = sq
		}
	}
	return s, nil
}

func (s scratch) filled(row, col int) bool {
	_, ok := s[pos{row, col}]
	return ok
}

// fits reports whether word can be laid at p crossing at least one existing
// letter, without letter conflicts and without touching unrelated letters.
func (s scratch) fits(word []rune, p Placement) bool {
	dr, dc := p.Direction.step()
	n := len(word)

	if s.filled(p.Row-dr, p.Col-dc) || s.filled(p.Row+n*dr, p.Col+n*dc) {
		return false
	}

	crossed := false
	for i, r := range word {
		row, col := p.Row+i*dr, p.Col+i*dc
		if sq, ok := s[pos{row, col}]; ok {
			// A shared cell must be a true crossing: same letter, and
			// no word already reading in this direction through it.
			if sq.letter != r || sq.runs(p.Direction) {
				return false
			}
			crossed = true
			continue
		}
		// Swapping the step gives the orthogonal neighbours.
		if s.filled(row+dc, col+dr) || s.filled(row-dc, col-dr) {
			return false
		}
	}
	return crossed
}

// intersections lists every placement of word that lines up one of its
// letters with an equal letter of an existing word. Words cross at right
// angles, so an across word yields down candidates and vice versa.
func intersections(existing []PlacedWord, word []rune) []Placement {
	var out []Placement
	for _, w := range existing {
		for a, er := range []rune(w.Text) {
			row, col := w.At(a)
			for b, nr := range word {
				if er != nr {
					continue
				}
				p := Placement{Row: row, Col: col - b, Direction: Across}
				if w.Direction == Across {
					p = Placement{Row: row - b, Col: col, Direction: Down}
				}
				out = append(out, p)
			}
		}
	}
	return out
}
