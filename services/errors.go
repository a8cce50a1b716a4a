package services

import "errors"

// Sentinel errors returned by the service layer. Controllers map these to HTTP
// status codes with errors.Is; nothing below this package swallows them.
var (
	// ErrValidation signals a malformed or missing required field.
	ErrValidation = errors.New("validation failed")
	// ErrUniqueness signals a collision on a unique attribute such as a group slug.
	ErrUniqueness = errors.New("uniqueness violated")
	// ErrNotFound signals that a referenced user, group, post, or comment does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAuthorization signals a mutation attempted by an identity lacking permission.
	ErrAuthorization = errors.New("not authorized")
	// ErrSelfFollow signals an attempt by a user to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrDuplicateFollow signals a repeated follow of the same author.
	ErrDuplicateFollow = errors.New("already following")
)
