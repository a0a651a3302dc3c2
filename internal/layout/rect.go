package layout

// Rect is an inclusive rectangle of grid cells.
type Rect struct {
	MinRow int `json:"min_row"`
	MinCol int `json:"min_col"`
	MaxRow int `json:"max_row"`
	MaxCol int `json:"max_col"`
}

func (r Rect) Width() int  { return r.MaxCol - r.MinCol + 1 }
func (r Rect) Height() int { return r.MaxRow - r.MinRow + 1 }
func (r Rect) Area() int   { return r.Width() * r.Height() }

func (r Rect) union(o Rect) Rect {
	return Rect{
		MinRow: min(r.MinRow, o.MinRow),
		MinCol: min(r.MinCol, o.MinCol),
		MaxRow: max(r.MaxRow, o.MaxRow),
		MaxCol: max(r.MaxCol, o.MaxCol),
	}
}

func (r Rect) offset(dr, dc int) Rect {
	return Rect{
		MinRow: r.MinRow + dr,
		MinCol: r.MinCol + dc,
		MaxRow: r.MaxRow + dr,
		MaxCol: r.MaxCol + dc,
	}
}

// within reports whether r lies inside a size x size grid.
func (r Rect) within(size int) bool {
	return r.MinRow >= 0 && r.MinCol >= 0 && r.MaxRow < size && r.MaxCol < size
}

// normalizingShift returns the smallest row and column shift that moves r
// to non-negative coordinates.
func (r Rect) normalizingShift() (dr, dc int) {
	return max(0, -r.MinRow), max(0, -r.MinCol)
}

// Bounds returns the bounding box of words. It is the zero Rect when words
// is empty.
func Bounds(words []PlacedWord) Rect {
	if len(words) == 0 {
		return Rect{}
	}
	b := words[0].Rect()
	for _, w := range words[1:] {
		b = b.union(w.Rect())
	}
	return b
}

// Score rates a layout by compactness: the negated area of its bounding
// box, so higher is better.
func Score(words []PlacedWord) int {
	if len(words) == 0 {
		return 0
	}
	return -Bounds(words).Area()
}
