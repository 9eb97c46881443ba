package fasta

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is matched by every *FormatError.
	ErrFormat = errors.New("not in FASTA format")
	// ErrEmptyInput is returned when the input holds no records at all.
	ErrEmptyInput = errors.New("no sequence data")
)

// FormatError reports input whose first significant byte is not '>'.
type FormatError struct {
	Source string
	Offset int64
	Found  byte
}

func (e *FormatError) Error() string {
	src := e.Source
	if src == "" {
		src = "input"
	}
	return fmt.Sprintf("%s: %v (found %q at byte %d, want '>')", src, ErrFormat, e.Found, e.Offset)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }
