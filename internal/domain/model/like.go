package model

import "time"

// Like is one engagement unit, unique per (submission, fingerprint).
// Rows are only ever created or deleted through the toggle, never updated.
type Like struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submission_id"`
	Fingerprint  string    `json:"fingerprint"`
	CreatedAt    time.Time `json:"created_at"`
}
