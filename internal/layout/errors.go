package layout

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWordLength = errors.New("words must be at least 3 letters long")
	ErrInvalidWord       = errors.New("words may only contain letters")

	// ErrNoLegalPlacement is returned when neither a crossing nor a
	// disconnected placement exists. The word set is left unchanged.
	ErrNoLegalPlacement = errors.New("cannot place word - try a word with letters that can intersect with existing words")

	// ErrBoundsExceeded is the ErrNoLegalPlacement case where some crossing
	// was only rejected because the shifted layout overflows the grid.
	ErrBoundsExceeded = fmt.Errorf("%w (grid too small)", ErrNoLegalPlacement)

	// ErrInconsistentLayout means the existing words disagree on a cell.
	ErrInconsistentLayout = errors.New("existing words conflict")
)
