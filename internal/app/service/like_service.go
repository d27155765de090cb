package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"log"
	"vibebench/internal/common"
	"vibebench/internal/domain/model"
	"vibebench/internal/domain/repository"
	"vibebench/internal/platform/cache"

	"github.com/google/uuid"
)

type LikeService struct {
	likeRepo       repository.LikeRepository
	submissionRepo repository.SubmissionRepository
	views          *cache.ViewCache
	db             *sql.DB // For transactions
	runTx          func(ctx context.Context, fn func(*sql.Tx) error) error
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	submissionRepo repository.SubmissionRepository,
	views *cache.ViewCache,
	db *sql.DB,
) *LikeService {
	s := &LikeService{
		likeRepo:       likeRepo,
		submissionRepo: submissionRepo,
		views:          views,
		db:             db,
	}
	s.runTx = s.runTxDB
	return s
}

func (s *LikeService) runTxDB(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Fingerprint derives the engagement identity from coarse network signals
// so anonymous visitors can like without an account. Users behind the
// same NAT with an identical user-agent collide; that is an accepted
// anti-spam trade-off, not a security credential.
func Fingerprint(userID, ip, userAgent string) string {
	if ip == "" {
		ip = "unknown"
	}
	if userAgent == "" {
		userAgent = "unknown"
	}
	source := ip + "-" + userAgent
	if userID != "" {
		source = userID + "-" + source
	}
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])[:32]
}

// Toggle flips the like state for (submission, fingerprint). The row
// write and the counter update share one transaction; the unique
// constraint on (submission_id, fingerprint) turns a racing duplicate
// insert into a clean conflict instead of a drifted counter.
func (s *LikeService) Toggle(ctx context.Context, submissionID, userID, ip, userAgent string) (liked bool, err error) {
	fingerprint := Fingerprint(userID, ip, userAgent)

	// Resolve the submission first so a bad ID reads as not-found rather
	// than a foreign-key failure inside the transaction.
	if _, err := s.submissionRepo.FindByID(ctx, submissionID); err != nil {
		return false, err
	}

	existing, err := s.likeRepo.Find(ctx, submissionID, fingerprint)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return false, common.Errorf("failed to look up like: %w", err)
	}

	err = s.runTx(ctx, func(tx *sql.Tx) error {
		if existing != nil {
			if err := s.likeRepo.Delete(ctx, tx, existing.ID); err != nil {
				return common.Errorf("failed to delete like: %w", err)
			}
			if err := s.submissionRepo.AdjustLikeCount(ctx, tx, submissionID, -1); err != nil {
				return common.Errorf("failed to decrement like count: %w", err)
			}
			liked = false
			return nil
		}

		like := &model.Like{
			ID:           uuid.NewString(),
			SubmissionID: submissionID,
			Fingerprint:  fingerprint,
		}
		if err := s.likeRepo.Create(ctx, tx, like); err != nil {
			return common.Errorf("failed to create like: %w", err)
		}
		if err := s.submissionRepo.AdjustLikeCount(ctx, tx, submissionID, 1); err != nil {
			return common.Errorf("failed to increment like count: %w", err)
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, err
	}

	s.views.Invalidate(ctx, cache.ViewBenchmarks, cache.ViewSubmissions)
	log.Printf("Submission %s like toggled to %t", submissionID, liked)
	return liked, nil
}

// CheckLiked recomputes the same fingerprint and reports whether a like
// exists. Read-only; used to prime the button state.
func (s *LikeService) CheckLiked(ctx context.Context, submissionID, userID, ip, userAgent string) (bool, error) {
	fingerprint := Fingerprint(userID, ip, userAgent)
	_, err := s.likeRepo.Find(ctx, submissionID, fingerprint)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
