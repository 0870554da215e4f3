package repository

import "errors"

// ErrNotFound indicates an entity was not located.
var ErrNotFound = errors.New("repository: not found")

// ErrInvalidField indicates an update named a column that is not editable.
var ErrInvalidField = errors.New("repository: field not editable")
