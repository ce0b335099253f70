package memberrepo

import "errors"

var (
	// ErrCorrupt indicates the stored roster could not be decoded.
	ErrCorrupt = errors.New("stored roster is corrupt")

	// ErrDuplicateID indicates Save was given two members with the same ID.
	ErrDuplicateID = errors.New("duplicate member id")
)
