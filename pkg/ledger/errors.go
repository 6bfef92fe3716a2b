package ledger

import (
	"errors"
	"fmt"

	"github.com/pixelforge/credits/pkg/models"
)

// ValidationError reports a caller-correctable parameter problem, such as a
// non-positive amount or a transaction type outside the operation's allowed
// set. It is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// InsufficientCreditsError reports that the balance, or the requested class
// split of it, cannot cover the amount. Required and Available are surfaced
// verbatim to the end user.
type InsufficientCreditsError struct {
	Required  int64
	Available int64
	Class     models.CreditClass
}

func (e *InsufficientCreditsError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("insufficient %s credits: required %d, available %d", e.Class, e.Required, e.Available)
	}
	return fmt.Sprintf("insufficient credits: required %d, available %d", e.Required, e.Available)
}

// IsInsufficientCredits reports whether err is an InsufficientCreditsError.
func IsInsufficientCredits(err error) bool {
	var ice *InsufficientCreditsError
	return errors.As(err, &ice)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
