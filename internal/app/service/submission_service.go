package service

import (
	"context"
	"log"
	"net/mail"
	"net/url"
	"strings"
	"vibebench/internal/common"
	"vibebench/internal/domain/model"
	"vibebench/internal/domain/repository"
	"vibebench/internal/platform/cache"

	"github.com/google/uuid"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	benchmarkRepo  repository.BenchmarkRepository
	userRepo       repository.UserRepository
	views          *cache.ViewCache
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	benchmarkRepo repository.BenchmarkRepository,
	userRepo repository.UserRepository,
	views *cache.ViewCache,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		benchmarkRepo:  benchmarkRepo,
		userRepo:       userRepo,
		views:          views,
	}
}

type SubmitForm struct {
	RepoUrl      string   `json:"repo_url"`
	BaseModel    string   `json:"base_model"`
	CodingTool   string   `json:"coding_tool"`
	Plugins      string   `json:"plugins"` // Raw comma-separated input
	AuthorName   string   `json:"author_name"`
	AuthorEmail  string   `json:"author_email"`
	ChatLogUrl   string   `json:"chat_log_url"`
	ChatLogText  string   `json:"chat_log_text"`
	ChatLogFiles []string `json:"chat_log_files"`
}

// FieldErrors maps form field names to their validation messages.
// Validation failures travel as data, never as errors, so the caller can
// re-render the form with inline feedback.
type FieldErrors map[string][]string

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ParsePlugins splits the raw comma-separated input, trims each entry and
// drops empties, so "pandas, matplotlib, " becomes ["pandas" "matplotlib"].
func ParsePlugins(raw string) []string {
	parts := strings.Split(raw, ",")
	plugins := []string{}
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			plugins = append(plugins, p)
		}
	}
	return plugins
}

// ValidateSubmitForm checks the evidence-of-work invariant along with the
// per-field rules. The missing-chat-log error is attached to chat_log_url
// by convention since that is the first evidence field on the form.
func ValidateSubmitForm(form SubmitForm) FieldErrors {
	errs := FieldErrors{}

	if !validURL(form.RepoUrl) {
		errs["repo_url"] = append(errs["repo_url"], "Please enter a valid URL")
	}
	if strings.TrimSpace(form.BaseModel) == "" {
		errs["base_model"] = append(errs["base_model"], "Base model is required")
	}
	if strings.TrimSpace(form.CodingTool) == "" {
		errs["coding_tool"] = append(errs["coding_tool"], "Coding tool is required")
	}
	if len(ParsePlugins(form.Plugins)) == 0 {
		errs["plugins"] = append(errs["plugins"], "Plugins are required (enter 'None' if applicable)")
	}
	if form.AuthorEmail != "" {
		if _, err := mail.ParseAddress(form.AuthorEmail); err != nil {
			errs["author_email"] = append(errs["author_email"], "Invalid email")
		}
	}
	if form.ChatLogUrl != "" && !validURL(form.ChatLogUrl) {
		errs["chat_log_url"] = append(errs["chat_log_url"], "Invalid URL")
	}
	for _, file := range form.ChatLogFiles {
		if !validURL(file) {
			errs["chat_log_files"] = append(errs["chat_log_files"], "Invalid url")
			break
		}
	}

	hasEvidence := form.ChatLogUrl != "" || strings.TrimSpace(form.ChatLogText) != "" || len(form.ChatLogFiles) > 0
	if !hasEvidence {
		errs["chat_log_url"] = append(errs["chat_log_url"], "At least one chat log (URL, Text, or File) is required")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit validates and persists a new submission. A non-nil FieldErrors
// return means the input was rejected and nothing was written.
func (s *SubmissionService) Submit(ctx context.Context, benchmarkID, userID string, form SubmitForm) (*model.Submission, FieldErrors, error) {
	if _, err := s.benchmarkRepo.FindByID(ctx, benchmarkID); err != nil {
		return nil, nil, common.Errorf("benchmark not found: %w", err)
	}

	if errs := ValidateSubmitForm(form); errs != nil {
		return nil, errs, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, common.Errorf("session user not found: %w", err)
	}

	// Author identity defaults to the session identity when the form
	// leaves it blank.
	authorName := strings.TrimSpace(form.AuthorName)
	if authorName == "" {
		authorName = user.Name
	}
	authorEmail := strings.TrimSpace(form.AuthorEmail)
	if authorEmail == "" {
		authorEmail = user.Email
	}

	submission := &model.Submission{
		ID:           uuid.NewString(),
		BenchmarkID:  benchmarkID,
		UserID:       userID,
		Status:       model.StatusPending,
		RepoUrl:      form.RepoUrl,
		BaseModel:    form.BaseModel,
		CodingTool:   form.CodingTool,
		Plugins:      ParsePlugins(form.Plugins),
		AuthorName:   nullable(authorName),
		AuthorEmail:  nullable(authorEmail),
		ChatLogUrl:   nullable(form.ChatLogUrl),
		ChatLogText:  nullable(form.ChatLogText),
		ChatLogFiles: form.ChatLogFiles,
		LikeCount:    0,
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, nil, common.Errorf("failed to create submission: %w", err)
	}

	s.views.Invalidate(ctx, cache.ViewBenchmark(benchmarkID), cache.ViewAdminQueue)
	log.Printf("Submission %s created for benchmark %s", submission.ID, benchmarkID)
	return submission, nil, nil
}

// Approve overwrites the status unconditionally; there is no guarded
// state machine here and no audit trail of prior moderation decisions.
func (s *SubmissionService) Approve(ctx context.Context, submissionID string) error {
	return s.moderate(ctx, submissionID, model.StatusApproved)
}

func (s *SubmissionService) Reject(ctx context.Context, submissionID string) error {
	return s.moderate(ctx, submissionID, model.StatusRejected)
}

func (s *SubmissionService) moderate(ctx context.Context, submissionID string, status model.SubmissionStatus) error {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return err
	}
	if err := s.submissionRepo.UpdateStatus(ctx, submissionID, status); err != nil {
		return err
	}

	s.views.Invalidate(ctx,
		cache.ViewAdminQueue,
		cache.ViewBenchmarks,
		cache.ViewSubmissions,
		cache.ViewBenchmark(submission.BenchmarkID),
	)
	log.Printf("Submission %s moderated to %s", submissionID, status)
	return nil
}

// GetAllSubmissions is the public leaderboard feed: approved only.
func (s *SubmissionService) GetAllSubmissions(ctx context.Context) ([]model.Submission, error) {
	var submissions []model.Submission
	if s.views.Get(ctx, cache.ViewSubmissions, &submissions) {
		return submissions, nil
	}

	submissions, err := s.submissionRepo.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	s.views.Set(ctx, cache.ViewSubmissions, submissions)
	return submissions, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	return s.submissionRepo.FindByID(ctx, id)
}

// GetUserSubmissions backs the dashboard: the caller's own submissions in
// any status. Per-user, so it bypasses the shared view cache.
func (s *SubmissionService) GetUserSubmissions(ctx context.Context, userID string) ([]model.Submission, error) {
	return s.submissionRepo.ListByUser(ctx, userID)
}

func (s *SubmissionService) GetPendingSubmissions(ctx context.Context) ([]model.Submission, error) {
	var submissions []model.Submission
	if s.views.Get(ctx, cache.ViewAdminQueue, &submissions) {
		return submissions, nil
	}

	submissions, err := s.submissionRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	s.views.Set(ctx, cache.ViewAdminQueue, submissions)
	return submissions, nil
}
