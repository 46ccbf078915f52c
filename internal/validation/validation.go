package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
)

// maxQuoteSymbols bounds a single market quote request.
const maxQuoteSymbols = 50

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

// ParseSymbols splits a comma separated symbol list, trimming blanks,
// upper-casing and dropping duplicates while keeping the first-seen order.
func ParseSymbols(raw string) ([]string, error) {
	seen := make(map[string]bool)
	symbols := []string{}
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}

	if len(symbols) == 0 {
		return nil, &Error{Fields: map[string]string{"symbols": "at least one symbol is required"}}
	}
	if len(symbols) > maxQuoteSymbols {
		return nil, &Error{Fields: map[string]string{"symbols": fmt.Sprintf("at most %d symbols per request", maxQuoteSymbols)}}
	}
	return symbols, nil
}
