package service

import (
	"context"
	"database/sql"
	"testing"
	"vibebench/internal/common"
	"vibebench/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	anon := Fingerprint("", "203.0.113.7", "Mozilla/5.0")

	assert.Len(t, anon, 32)
	assert.Equal(t, anon, Fingerprint("", "203.0.113.7", "Mozilla/5.0"), "same signals, same fingerprint")

	assert.NotEqual(t, anon, Fingerprint("user-1", "203.0.113.7", "Mozilla/5.0"), "a session strengthens the fingerprint")
	assert.NotEqual(t, anon, Fingerprint("", "203.0.113.8", "Mozilla/5.0"), "different IP, different fingerprint")
	assert.NotEqual(t, anon, Fingerprint("", "203.0.113.7", "curl/8.0"), "different user-agent, different fingerprint")
}

func TestFingerprintMissingSignals(t *testing.T) {
	// Missing headers collapse to the "unknown" bucket instead of the
	// empty string, matching the header-less fallback on the web side.
	assert.Equal(t, Fingerprint("", "", ""), Fingerprint("", "unknown", "unknown"))
}

func newTestLikeService(likeRepo *fakeLikeRepo, subRepo *fakeSubmissionRepo) *LikeService {
	s := NewLikeService(likeRepo, subRepo, nil, nil)
	s.runTx = func(ctx context.Context, fn func(*sql.Tx) error) error {
		return fn(nil)
	}
	return s
}

func TestTogglePairIsIdempotent(t *testing.T) {
	sub := &model.Submission{ID: "sub-1", BenchmarkID: "bench-1", Status: model.StatusApproved, LikeCount: 0}
	likeRepo := newFakeLikeRepo()
	subRepo := newFakeSubmissionRepo(sub)
	s := newTestLikeService(likeRepo, subRepo)
	ctx := context.Background()

	liked, err := s.Toggle(ctx, "sub-1", "", "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, sub.LikeCount)

	liked, err = s.Toggle(ctx, "sub-1", "", "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)
	assert.False(t, liked)

	// A like/unlike pair restores the original state: counter at zero and
	// no row left for the fingerprint.
	assert.Equal(t, 0, sub.LikeCount)
	rows, err := likeRepo.CountBySubmission(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 0, rows)
}

func TestToggleCounterMatchesRows(t *testing.T) {
	sub := &model.Submission{ID: "sub-1", Status: model.StatusApproved}
	likeRepo := newFakeLikeRepo()
	subRepo := newFakeSubmissionRepo(sub)
	s := newTestLikeService(likeRepo, subRepo)
	ctx := context.Background()

	// Distinct fingerprints accumulate; shared ones toggle.
	_, err := s.Toggle(ctx, "sub-1", "", "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)
	_, err = s.Toggle(ctx, "sub-1", "", "203.0.113.8", "Mozilla/5.0")
	require.NoError(t, err)
	_, err = s.Toggle(ctx, "sub-1", "user-1", "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)

	rows, err := likeRepo.CountBySubmission(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Equal(t, rows, sub.LikeCount, "denormalized counter tracks the row count")
}

func TestToggleUnknownSubmission(t *testing.T) {
	s := newTestLikeService(newFakeLikeRepo(), newFakeSubmissionRepo())

	_, err := s.Toggle(context.Background(), "missing", "", "203.0.113.7", "Mozilla/5.0")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

// A second toggle with the same fingerprint can commit between the
// lookup and the insert. The unique constraint fails the late insert
// before the counter moves, so like_count still matches the rows.
func TestToggleDuplicateInsertFailsCleanly(t *testing.T) {
	sub := &model.Submission{ID: "sub-1", Status: model.StatusApproved}
	likeRepo := newFakeLikeRepo()
	subRepo := newFakeSubmissionRepo(sub)
	s := NewLikeService(likeRepo, subRepo, nil, nil)
	ctx := context.Background()

	fingerprint := Fingerprint("", "203.0.113.7", "Mozilla/5.0")
	s.runTx = func(ctx context.Context, fn func(*sql.Tx) error) error {
		// The racing toggle lands first.
		require.NoError(t, likeRepo.Create(ctx, nil, &model.Like{ID: "race", SubmissionID: "sub-1", Fingerprint: fingerprint}))
		require.NoError(t, subRepo.AdjustLikeCount(ctx, nil, "sub-1", 1))
		return fn(nil)
	}

	_, err := s.Toggle(ctx, "sub-1", "", "203.0.113.7", "Mozilla/5.0")
	assert.ErrorIs(t, err, common.ErrConflict)

	rows, err := likeRepo.CountBySubmission(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.Equal(t, rows, sub.LikeCount, "failed toggle leaves the counter matching the rows")
}

func TestCheckLiked(t *testing.T) {
	sub := &model.Submission{ID: "sub-1", Status: model.StatusApproved}
	likeRepo := newFakeLikeRepo()
	subRepo := newFakeSubmissionRepo(sub)
	s := newTestLikeService(likeRepo, subRepo)
	ctx := context.Background()

	liked, err := s.CheckLiked(ctx, "sub-1", "", "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = s.Toggle(ctx, "sub-1", "", "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)

	liked, err = s.CheckLiked(ctx, "sub-1", "", "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)
	assert.True(t, liked, "same fingerprint sees its like")

	liked, err = s.CheckLiked(ctx, "sub-1", "", "198.51.100.2", "Mozilla/5.0")
	require.NoError(t, err)
	assert.False(t, liked, "a different IP/UA combination does not")

	// CheckLiked never mutates.
	assert.Equal(t, 1, sub.LikeCount)
}
