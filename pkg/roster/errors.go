package roster

import (
	"errors"

	"github.com/mchmarny/gradebook/pkg/grade"
)

var (
	ErrMalformedInput    = errors.New("malformed input")
	ErrDuplicateID       = errors.New("duplicate student id")
	ErrNotFound          = errors.New("student not found")
	ErrUnknownComponent  = grade.ErrUnknownComponent
	ErrWeightSumExceeded = grade.ErrWeightSumExceeded
	ErrFileUnreadable    = errors.New("roster file unreadable")
)
