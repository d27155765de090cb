package service

import (
	"context"
	"database/sql"
	"vibebench/internal/common"
	"vibebench/internal/domain/model"
)

// In-memory repository fakes for service tests.

type fakeUserRepo struct {
	users map[string]*model.User // by ID
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

// Stores and returns copies so callers mutating a returned user (the
// auth service blanks the hash before responding) cannot corrupt the
// stored row.
func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return common.ErrConflict
		}
	}
	copied := *user
	r.users[copied.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) UpsertByEmail(ctx context.Context, user *model.User) (*model.User, error) {
	if existing, err := r.FindByEmail(ctx, user.Email); err == nil {
		return existing, nil
	}
	copied := *user
	r.users[copied.ID] = &copied
	return &copied, nil
}

type fakeBenchmarkRepo struct {
	benchmarks      map[string]*model.Benchmark
	submissionCount map[string]int
}

func newFakeBenchmarkRepo(benchmarks ...*model.Benchmark) *fakeBenchmarkRepo {
	r := &fakeBenchmarkRepo{benchmarks: map[string]*model.Benchmark{}, submissionCount: map[string]int{}}
	for _, b := range benchmarks {
		r.benchmarks[b.ID] = b
	}
	return r
}

func (r *fakeBenchmarkRepo) Create(ctx context.Context, b *model.Benchmark) error {
	if _, ok := r.benchmarks[b.ID]; ok {
		return common.ErrConflict
	}
	r.benchmarks[b.ID] = b
	return nil
}

func (r *fakeBenchmarkRepo) Update(ctx context.Context, b *model.Benchmark) error {
	if _, ok := r.benchmarks[b.ID]; !ok {
		return common.ErrNotFound
	}
	r.benchmarks[b.ID] = b
	return nil
}

func (r *fakeBenchmarkRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.benchmarks[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.benchmarks, id)
	return nil
}

func (r *fakeBenchmarkRepo) FindByID(ctx context.Context, id string) (*model.Benchmark, error) {
	if b, ok := r.benchmarks[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeBenchmarkRepo) ListActive(ctx context.Context) ([]model.Benchmark, error) {
	out := []model.Benchmark{}
	for _, b := range r.benchmarks {
		if b.IsActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBenchmarkRepo) ListAll(ctx context.Context) ([]model.Benchmark, error) {
	out := []model.Benchmark{}
	for _, b := range r.benchmarks {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBenchmarkRepo) CountSubmissions(ctx context.Context, benchmarkID string) (int, error) {
	return r.submissionCount[benchmarkID], nil
}

func (r *fakeBenchmarkRepo) Upsert(ctx context.Context, b *model.Benchmark) error {
	if _, ok := r.benchmarks[b.ID]; !ok {
		r.benchmarks[b.ID] = b
	}
	return nil
}

type fakeSubmissionRepo struct {
	submissions map[string]*model.Submission
}

func newFakeSubmissionRepo(subs ...*model.Submission) *fakeSubmissionRepo {
	r := &fakeSubmissionRepo{submissions: map[string]*model.Submission{}}
	for _, s := range subs {
		r.submissions[s.ID] = s
	}
	return r
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	r.submissions[sub.ID] = sub
	return nil
}

func (r *fakeSubmissionRepo) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	if s, ok := r.submissions[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeSubmissionRepo) UpdateStatus(ctx context.Context, id string, status model.SubmissionStatus) error {
	s, ok := r.submissions[id]
	if !ok {
		return common.ErrNotFound
	}
	s.Status = status
	return nil
}

func (r *fakeSubmissionRepo) ListApproved(ctx context.Context) ([]model.Submission, error) {
	return r.listByStatus(model.StatusApproved), nil
}

func (r *fakeSubmissionRepo) ListByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	out := []model.Submission{}
	for _, s := range r.submissions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) ListPending(ctx context.Context) ([]model.Submission, error) {
	return r.listByStatus(model.StatusPending), nil
}

func (r *fakeSubmissionRepo) listByStatus(status model.SubmissionStatus) []model.Submission {
	out := []model.Submission{}
	for _, s := range r.submissions {
		if s.Status == status {
			out = append(out, *s)
		}
	}
	return out
}

func (r *fakeSubmissionRepo) ListByBenchmark(ctx context.Context, benchmarkID string) ([]model.SubmissionSummary, error) {
	out := []model.SubmissionSummary{}
	for _, s := range r.submissions {
		if s.BenchmarkID == benchmarkID {
			out = append(out, model.SubmissionSummary{
				ID: s.ID, Status: s.Status, RepoUrl: s.RepoUrl, AuthorName: s.AuthorName,
				BaseModel: s.BaseModel, CodingTool: s.CodingTool, LikeCount: s.LikeCount, CreatedAt: s.CreatedAt,
			})
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) AdjustLikeCount(ctx context.Context, tx *sql.Tx, id string, delta int) error {
	s, ok := r.submissions[id]
	if !ok {
		return common.ErrNotFound
	}
	s.LikeCount += delta
	return nil
}

type fakeLikeRepo struct {
	likes map[string]*model.Like // keyed submissionID+"|"+fingerprint
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[string]*model.Like{}}
}

func (r *fakeLikeRepo) Find(ctx context.Context, submissionID, fingerprint string) (*model.Like, error) {
	if l, ok := r.likes[submissionID+"|"+fingerprint]; ok {
		return l, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeLikeRepo) Create(ctx context.Context, tx *sql.Tx, like *model.Like) error {
	key := like.SubmissionID + "|" + like.Fingerprint
	if _, ok := r.likes[key]; ok {
		return common.ErrConflict
	}
	r.likes[key] = like
	return nil
}

func (r *fakeLikeRepo) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	for key, l := range r.likes {
		if l.ID == id {
			delete(r.likes, key)
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeLikeRepo) CountBySubmission(ctx context.Context, submissionID string) (int, error) {
	count := 0
	for _, l := range r.likes {
		if l.SubmissionID == submissionID {
			count++
		}
	}
	return count, nil
}
