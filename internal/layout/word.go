package layout

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinWordLength is the shortest word accepted onto a grid.
const MinWordLength = 3

// Direction is the reading direction of a word on the grid.
type Direction int

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "across"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "across":
		*d = Across
	case "down":
		*d = Down
	default:
		return fmt.Errorf("unknown direction %q", b)
	}
	return nil
}

// step returns the row and column delta between consecutive letters.
func (d Direction) step() (int, int) {
	if d == Down {
		return 1, 0
	}
	return 0, 1
}

// PlacedWord is a word committed to a puzzle. Row and Col locate its first
// letter. Number is assigned once, when the word is added, and never changes.
type PlacedWord struct {
	Text      string    `json:"word"`
	Clue      string    `json:"clue"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Direction Direction `json:"direction"`
	Number    int       `json:"number"`
}

// Len returns the number of letters in the word.
func (w PlacedWord) Len() int {
	return utf8.RuneCountInString(w.Text)
}

// At returns the grid position of the i-th letter.
func (w PlacedWord) At(i int) (row, col int) {
	dr, dc := w.Direction.step()
	return w.Row + i*dr, w.Col + i*dc
}

// Rect returns the cells the word covers.
func (w PlacedWord) Rect() Rect {
	return w.Placement().rect(w.Len())
}

// Placement returns the word's origin and direction.
func (w PlacedWord) Placement() Placement {
	return Placement{Row: w.Row, Col: w.Col, Direction: w.Direction}
}

func (w PlacedWord) shifted(dr, dc int) PlacedWord {
	w.Row += dr
	w.Col += dc
	return w
}

// Placement is an origin and direction for a word.
type Placement struct {
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Direction Direction `json:"direction"`
}

// Place builds the committed word for text at p.
func (p Placement) Place(text, clue string, number int) PlacedWord {
	return PlacedWord{
		Text:      text,
		Clue:      clue,
		Row:       p.Row,
		Col:       p.Col,
		Direction: p.Direction,
		Number:    number,
	}
}

func (p Placement) rect(n int) Rect {
	dr, dc := p.Direction.step()
	return Rect{
		MinRow: p.Row,
		MinCol: p.Col,
		MaxRow: p.Row + (n-1)*dr,
		MaxCol: p.Col + (n-1)*dc,
	}
}

func (p Placement) shifted(dr, dc int) Placement {
	p.Row += dr
	p.Col += dc
	return p
}

// NormalizeWord trims and uppercases a word typed by the user and checks it
// can go on a grid.
func NormalizeWord(s string) (string, error) {
	w := strings.ToUpper(strings.TrimSpace(s))
	if utf8.RuneCountInString(w) < MinWordLength {
		return "", ErrInvalidWordLength
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidWord, s)
		}
	}
	return w, nil
}
