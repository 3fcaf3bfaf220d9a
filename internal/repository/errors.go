package repository

import "errors"

// ErrNotFound is returned when a single-row fetch matches no row owned by the
// requesting user.
var ErrNotFound = errors.New("not found")
