package cell

import "github.com/pkg/errors"

var (
	// ErrInvalidCell is returned for a face >= 6, a malformed lsb or unparsable text
	ErrInvalidCell = errors.New("invalid cell id")
	// ErrLeafCell is returned when descending below a leaf
	ErrLeafCell = errors.New("leaf cell has no children")
	// ErrChildPosition is returned for a child position outside 0..3
	ErrChildPosition = errors.New("child position out of range")
	// ErrLevel is returned for a level outside 0..30 or below the cell's own level
	ErrLevel = errors.New("level out of range")
)
