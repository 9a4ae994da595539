package collection

import "errors"

// ErrNotFound marks lookups that missed: unknown video IDs, unknown
// bookmark categories, out-of-range trash positions.
var ErrNotFound = errors.New("not found")
