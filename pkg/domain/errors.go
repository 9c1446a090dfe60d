package domain

import "errors"

// ErrEmptyFlow is returned when the external source yields zero usable rows.
// The store treats it like any other load failure and keeps the last-good flow.
var ErrEmptyFlow = errors.New("flow has no usable rows")
