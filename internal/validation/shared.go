package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
)

// Error carries one message per invalid field, keyed by the wire field name.
// It unwraps to apperrors.ErrValidation.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error {
	return apperrors.ErrValidation
}

// FromFields returns nil for an empty map and an *Error otherwise.
func FromFields(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{Fields: fields}
}
