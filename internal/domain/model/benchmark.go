package model

import (
	"time"
)

// Benchmark IDs are URL-safe slugs derived from the title at creation
// time, so benchmark URLs stay readable without a separate slug column.
type Benchmark struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description,omitempty"`
	RequirementDoc *string   `json:"requirement_doc,omitempty"`
	PrototypeUrl   *string   `json:"prototype_url,omitempty"`
	UserStories    *string   `json:"user_stories,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedByID    string    `json:"created_by_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	CreatedByName   *string `json:"created_by_name,omitempty"`  // For display
	CreatedByImage  *string `json:"created_by_image,omitempty"` // For display
	SubmissionCount int     `json:"submission_count"`

	Submissions []SubmissionSummary `json:"submissions,omitempty"` // Detail view only
}
