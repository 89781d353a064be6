package model

import (
	"errors"
	"strings"
	"time"
)

type Vote struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Choice    Choice    `json:"choice" firestore:"choice"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}

// NewVote normalises the visitor name and checks the vote preconditions.
// The ID is left for the store to assign.
func NewVote(name string, choice Choice, now time.Time) (Vote, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Vote{}, errors.New("name is required")
	}
	if !choice.Valid() {
		return Vote{}, errors.New("choice must be A or B")
	}

	return Vote{
		Name:      name,
		Choice:    choice,
		Timestamp: now.UTC(),
	}, nil
}
