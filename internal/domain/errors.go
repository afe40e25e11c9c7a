package domain

import "errors"

// ErrNotFound is returned by stores when a lookup by identifier or unique key
// matches nothing.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by stores when an insert violates a uniqueness
// constraint, e.g. registering an email twice.
var ErrDuplicate = errors.New("duplicate")
