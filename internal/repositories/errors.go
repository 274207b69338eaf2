package repositories

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateVote is returned when a user already holds a vote of the
	// requested type on an answer.
	ErrDuplicateVote = errors.New("duplicate vote")

	// ErrVoteConflict is returned when a conditional vote update matched
	// nothing because the vote list changed under a concurrent request.
	ErrVoteConflict = errors.New("vote state changed concurrently")
)
