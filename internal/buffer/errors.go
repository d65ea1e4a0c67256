package buffer

import "fmt"

// UnderflowError is returned when a read (or seek) would consume bytes
// past the end of the buffer's written region.
type UnderflowError struct {
	Cursor    int
	Size      int
	Requested int
}

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("buffer: underflow at cursor %d (size %d, requested %d)", e.Cursor, e.Size, e.Requested)
}

func newUnderflow(cursor, size, requested int) error {
	return &UnderflowError{Cursor: cursor, Size: size, Requested: requested}
}
