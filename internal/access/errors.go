package access

import "errors"

var (
	// ErrInvalidCode is returned when a code is not exactly four digits.
	ErrInvalidCode = errors.New("access: code must be exactly 4 digits")

	// ErrDuplicateCode is returned when two credentials share a code.
	ErrDuplicateCode = errors.New("access: duplicate code in registry")

	// ErrEmptyOwner is returned when a credential has no owner name.
	ErrEmptyOwner = errors.New("access: owner name is empty")
)
