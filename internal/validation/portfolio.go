package validation

import (
	"strings"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/request"
)

// ValidateCreatePortfolio validates a portfolio creation request.
//
// Required fields:
//   - name: non-blank, at most 100 characters
func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	return FromFields(errors)
}

// ValidateUpdatePosition checks that an edit request carries at least one
// field. Range checks happen in the reconciler, where the merged record is
// known.
func ValidateUpdatePosition(req request.UpdatePositionRequest) error {
	if req.Quantity == nil && req.AverageCost == nil && req.Sector == nil {
		return &Error{Fields: map[string]string{"body": "at least one of quantity, average_cost or sector is required"}}
	}
	return nil
}
