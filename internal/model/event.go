package model

import "time"

// VoteRecorded is announced to other systems after a vote is stored.
type VoteRecorded struct {
	Vote       Vote      `json:"vote"`
	Backend    string    `json:"backend"`
	RecordedAt time.Time `json:"recorded_at"`
}
