package index

import "errors"

var (
	// ErrShapeMismatch is returned when questions, answers and vectors are
	// not aligned or vectors differ in length.
	ErrShapeMismatch = errors.New("index shape mismatch")
	// ErrInvalidDimension is returned when a query vector does not match
	// the index dimension.
	ErrInvalidDimension = errors.New("invalid vector dimension")
	// ErrCorruptIndex is returned when persisted artifacts cannot be loaded.
	ErrCorruptIndex = errors.New("corrupt index")
)
