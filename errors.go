package nbt

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType    = errors.New("nbt: unknown tag type")
	ErrLengthOverflow = errors.New("nbt: length exceeds prefix width")
	ErrInvalidString  = errors.New("nbt: invalid string encoding")
	ErrValueRange     = errors.New("nbt: value out of range")
	ErrElementType    = errors.New("nbt: list element type mismatch")
	ErrNegativeLength = errors.New("nbt: negative length")
	ErrDepth          = errors.New("nbt: nesting too deep")
	ErrTrailingData   = errors.New("nbt: trailing data after record")
	ErrClosed         = errors.New("nbt: encoder closed")
)

// FormatError reports a tree that cannot be expressed in NBT, or a stream
// that does not decode as NBT.
type FormatError struct {
	Type TagType
	Name string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("nbt: format error in %s(%q): %v", e.Type, e.Name, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// IOError reports a failure of the underlying byte sink or source while the
// named tag was being processed.
type IOError struct {
	Type TagType
	Name string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("nbt: i/o error in %s(%q): %v", e.Type, e.Name, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func formatErr(t Tag, sentinel error, format string, args ...any) *FormatError {
	return &FormatError{
		Type: t.Type,
		Name: t.Name,
		Err:  fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

// ioErr wraps err with the tag context unless it already carries one from a
// deeper level.
func ioErr(t Tag, err error) error {
	if err == nil {
		return nil
	}
	var ie *IOError
	if errors.As(err, &ie) {
		return err
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		return err
	}
	return &IOError{Type: t.Type, Name: t.Name, Err: err}
}
