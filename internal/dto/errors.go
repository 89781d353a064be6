package dto

import "errors"

var (
	ErrInternalFailure     = errors.New("internal failure")
	ErrInvalidVote         = errors.New("invalid vote")
	ErrWriteFailure        = errors.New("write failed")
	ErrReadFailure         = errors.New("read failed")
	ErrSubscriptionFailure = errors.New("tally subscription failed")
)
