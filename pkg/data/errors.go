package data

import "errors"

// Common errors.
var (
	ErrMissingColumn    = errors.New("missing column")
	ErrUnexpectedColumn = errors.New("unexpected column")
	ErrDuplicateColumn  = errors.New("duplicate column")
	ErrEmptyTable       = errors.New("table has no data rows")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrNotNumeric       = errors.New("value is not numeric")
)
