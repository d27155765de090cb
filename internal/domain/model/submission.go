package model

import "time"

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "PENDING"
	StatusApproved SubmissionStatus = "APPROVED"
	StatusRejected SubmissionStatus = "REJECTED"
)

type Submission struct {
	ID           string           `json:"id"`
	BenchmarkID  string           `json:"benchmark_id"`
	UserID       string           `json:"user_id"`
	Status       SubmissionStatus `json:"status"`
	RepoUrl      string           `json:"repo_url"`
	BaseModel    string           `json:"base_model"`
	CodingTool   string           `json:"coding_tool"`
	Plugins      []string         `json:"plugins"`
	AuthorName   *string          `json:"author_name,omitempty"`
	AuthorEmail  *string          `json:"author_email,omitempty"`
	ChatLogUrl   *string          `json:"chat_log_url,omitempty"`
	ChatLogText  *string          `json:"chat_log_text,omitempty"`
	ChatLogFiles []string         `json:"chat_log_files"`
	// LikeCount is denormalized and only ever changes in the same
	// transaction as its Like row, so it always equals the row count.
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`

	BenchmarkTitle       *string `json:"benchmark_title,omitempty"`       // For display
	BenchmarkDescription *string `json:"benchmark_description,omitempty"` // Detail view
	UserName             *string `json:"user_name,omitempty"`             // For display
	UserImage            *string `json:"user_image,omitempty"`            // For display
}

// SubmissionSummary is the trimmed shape embedded in a benchmark detail
// page; chat logs and emails stay out of public listings.
type SubmissionSummary struct {
	ID         string           `json:"id"`
	Status     SubmissionStatus `json:"status"`
	RepoUrl    string           `json:"repo_url"`
	AuthorName *string          `json:"author_name,omitempty"`
	BaseModel  string           `json:"base_model"`
	CodingTool string           `json:"coding_tool"`
	LikeCount  int              `json:"like_count"`
	CreatedAt  time.Time        `json:"created_at"`
}
