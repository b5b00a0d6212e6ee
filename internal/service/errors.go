package service

import "errors"

// ErrNotFound signals a missing order or customer; the HTTP layer maps
// it to 404. Store failures propagate opaquely.
var ErrNotFound = errors.New("not found")
