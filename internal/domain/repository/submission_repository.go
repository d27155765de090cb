package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"vibebench/internal/common"
	"vibebench/internal/domain/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	// UpdateStatus overwrites the status unconditionally; re-approving an
	// already-approved submission is a no-op overwrite, not an error.
	UpdateStatus(ctx context.Context, id string, status model.SubmissionStatus) error
	ListApproved(ctx context.Context) ([]model.Submission, error)
	ListByUser(ctx context.Context, userID string) ([]model.Submission, error)
	ListPending(ctx context.Context) ([]model.Submission, error)
	ListByBenchmark(ctx context.Context, benchmarkID string) ([]model.SubmissionSummary, error)
	// AdjustLikeCount runs inside the same transaction as the Like row
	// write; that pairing is what keeps like_count equal to the row count.
	AdjustLikeCount(ctx context.Context, tx *sql.Tx, id string, delta int) error
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

// plugins and chat_log_files are stored as JSONB arrays.
func marshalStrings(ss []string) []byte {
	if ss == nil {
		ss = []string{}
	}
	bs, _ := json.Marshal(ss)
	return bs
}

func unmarshalStrings(bs []byte) []string {
	var ss []string
	if err := json.Unmarshal(bs, &ss); err != nil || ss == nil {
		return []string{}
	}
	return ss
}

func (r *pgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	query := `INSERT INTO submissions
	          (id, benchmark_id, user_id, status, repo_url, base_model, coding_tool, plugins,
	           author_name, author_email, chat_log_url, chat_log_text, chat_log_files, like_count)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.BenchmarkID, sub.UserID, sub.Status, sub.RepoUrl, sub.BaseModel, sub.CodingTool,
		marshalStrings(sub.Plugins), sub.AuthorName, sub.AuthorEmail, sub.ChatLogUrl, sub.ChatLogText,
		marshalStrings(sub.ChatLogFiles), sub.LikeCount)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

const submissionSelect = `
	SELECT s.id, s.benchmark_id, s.user_id, s.status, s.repo_url, s.base_model, s.coding_tool,
	       s.plugins, s.author_name, s.author_email, s.chat_log_url, s.chat_log_text,
	       s.chat_log_files, s.like_count, s.created_at,
	       b.title, u.name, u.image
	FROM submissions s
	JOIN benchmarks b ON b.id = s.benchmark_id
	JOIN users u ON u.id = s.user_id`

func (r *pgSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `
	SELECT s.id, s.benchmark_id, s.user_id, s.status, s.repo_url, s.base_model, s.coding_tool,
	       s.plugins, s.author_name, s.author_email, s.chat_log_url, s.chat_log_text,
	       s.chat_log_files, s.like_count, s.created_at,
	       b.title, b.description, u.name, u.image
	FROM submissions s
	JOIN benchmarks b ON b.id = s.benchmark_id
	JOIN users u ON u.id = s.user_id
	WHERE s.id = $1`

	sub := &model.Submission{}
	var plugins, files []byte
	var userName string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.BenchmarkID, &sub.UserID, &sub.Status, &sub.RepoUrl, &sub.BaseModel, &sub.CodingTool,
		&plugins, &sub.AuthorName, &sub.AuthorEmail, &sub.ChatLogUrl, &sub.ChatLogText,
		&files, &sub.LikeCount, &sub.CreatedAt,
		&sub.BenchmarkTitle, &sub.BenchmarkDescription, &userName, &sub.UserImage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByID: %w", err)
	}
	sub.Plugins = unmarshalStrings(plugins)
	sub.ChatLogFiles = unmarshalStrings(files)
	sub.UserName = &userName
	return sub, nil
}

func (r *pgSubmissionRepository) UpdateStatus(ctx context.Context, id string, status model.SubmissionStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE submissions SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgSubmissionRepository) ListApproved(ctx context.Context) ([]model.Submission, error) {
	return r.list(ctx, submissionSelect+` WHERE s.status = $1 ORDER BY s.created_at DESC`, model.StatusApproved)
}

func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	return r.list(ctx, submissionSelect+` WHERE s.user_id = $1 ORDER BY s.created_at DESC`, userID)
}

// ListPending is the moderation queue, oldest first so nothing starves.
func (r *pgSubmissionRepository) ListPending(ctx context.Context) ([]model.Submission, error) {
	return r.list(ctx, submissionSelect+` WHERE s.status = $1 ORDER BY s.created_at ASC`, model.StatusPending)
}

func (r *pgSubmissionRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.list: %w", err)
	}
	defer rows.Close()

	submissions := []model.Submission{}
	for rows.Next() {
		var sub model.Submission
		var plugins, files []byte
		var userName string
		if err := rows.Scan(
			&sub.ID, &sub.BenchmarkID, &sub.UserID, &sub.Status, &sub.RepoUrl, &sub.BaseModel, &sub.CodingTool,
			&plugins, &sub.AuthorName, &sub.AuthorEmail, &sub.ChatLogUrl, &sub.ChatLogText,
			&files, &sub.LikeCount, &sub.CreatedAt,
			&sub.BenchmarkTitle, &userName, &sub.UserImage,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.list scan: %w", err)
		}
		sub.Plugins = unmarshalStrings(plugins)
		sub.ChatLogFiles = unmarshalStrings(files)
		sub.UserName = &userName
		submissions = append(submissions, sub)
	}
	return submissions, rows.Err()
}

func (r *pgSubmissionRepository) ListByBenchmark(ctx context.Context, benchmarkID string) ([]model.SubmissionSummary, error) {
	query := `SELECT id, status, repo_url, author_name, base_model, coding_tool, like_count, created_at
	          FROM submissions WHERE benchmark_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, benchmarkID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByBenchmark: %w", err)
	}
	defer rows.Close()

	summaries := []model.SubmissionSummary{}
	for rows.Next() {
		var s model.SubmissionSummary
		if err := rows.Scan(&s.ID, &s.Status, &s.RepoUrl, &s.AuthorName, &s.BaseModel, &s.CodingTool, &s.LikeCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByBenchmark scan: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *pgSubmissionRepository) AdjustLikeCount(ctx context.Context, tx *sql.Tx, id string, delta int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE submissions SET like_count = like_count + $2 WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.AdjustLikeCount: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
