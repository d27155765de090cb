package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vibebench/internal/common"
	"vibebench/internal/domain/model"
)

type LikeRepository interface {
	Find(ctx context.Context, submissionID, fingerprint string) (*model.Like, error)
	// Create and Delete take the caller's transaction so the Like row and
	// the denormalized counter always move together.
	Create(ctx context.Context, tx *sql.Tx, like *model.Like) error
	Delete(ctx context.Context, tx *sql.Tx, id string) error
	CountBySubmission(ctx context.Context, submissionID string) (int, error)
}

type pgLikeRepository struct {
	db *sql.DB
}

func NewPgLikeRepository(db *sql.DB) LikeRepository {
	return &pgLikeRepository{db: db}
}

func (r *pgLikeRepository) Find(ctx context.Context, submissionID, fingerprint string) (*model.Like, error) {
	like := &model.Like{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, submission_id, fingerprint, created_at FROM likes
		 WHERE submission_id = $1 AND fingerprint = $2`,
		submissionID, fingerprint,
	).Scan(&like.ID, &like.SubmissionID, &like.Fingerprint, &like.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgLikeRepository.Find: %w", err)
	}
	return like, nil
}

func (r *pgLikeRepository) Create(ctx context.Context, tx *sql.Tx, like *model.Like) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO likes (id, submission_id, fingerprint) VALUES ($1, $2, $3)`,
		like.ID, like.SubmissionID, like.Fingerprint)
	if err != nil {
		if common.IsUniqueViolation(err) {
			// A concurrent toggle from the same fingerprint got there
			// first; failing the transaction keeps like_count honest.
			return fmt.Errorf("like already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgLikeRepository.Create: %w", err)
	}
	return nil
}

func (r *pgLikeRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgLikeRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgLikeRepository) CountBySubmission(ctx context.Context, submissionID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE submission_id = $1`, submissionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgLikeRepository.CountBySubmission: %w", err)
	}
	return count, nil
}
