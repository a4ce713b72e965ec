package store

import "errors"

var (
	// ErrNotFound is returned for missing entities and for hidden ones alike.
	ErrNotFound = errors.New("not found")
	// ErrMalformedComment is returned when a comment names zero or two parents.
	ErrMalformedComment = errors.New("comment must reference exactly one parent")
	// ErrDanglingParent is returned when a comment's parent does not resolve.
	ErrDanglingParent = errors.New("comment parent does not exist")
	// ErrInvalidState is returned for state values outside the declared enumeration.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidAttachment is returned for an attachment without URL or with an unknown kind.
	ErrInvalidAttachment = errors.New("invalid attachment")
	// ErrInvalidUser is returned for an empty user identifier.
	ErrInvalidUser = errors.New("invalid user id")
	// ErrUserExists is returned when registering a user id twice.
	ErrUserExists = errors.New("user already exists")
)
