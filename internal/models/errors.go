package models

import (
	"errors"
)

var (
	// ErrMissingInput means the caller omitted the category or the question.
	ErrMissingInput = errors.New("category and question are required")
	// ErrCategoryNotFound means the catalog has no category with that name.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrNoConfidentMatch means every stage ran and the best candidate
	// stayed below the acceptance threshold.
	ErrNoConfidentMatch = errors.New("no sufficiently confident answer")
	// ErrRetrievalFailed marks an embedding/index infrastructure failure,
	// as opposed to a valid empty result.
	ErrRetrievalFailed = errors.New("semantic retrieval unavailable")
	// ErrGenerativeUnavailable marks a generative backend failure. It is
	// always absorbed before reaching the caller.
	ErrGenerativeUnavailable = errors.New("generative backend unavailable")
)
