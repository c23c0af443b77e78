package entity

import "errors"

var (
	// ErrDuplicateLink is returned by the store when an insert collides with
	// an existing article link. Callers absorb it as a no-op.
	ErrDuplicateLink = errors.New("article link already exists")

	// ErrTitleRequired is returned when an article has no title.
	ErrTitleRequired = errors.New("article title is required")

	// ErrLinkRequired is returned when an article has no link.
	ErrLinkRequired = errors.New("article link is required")
)
