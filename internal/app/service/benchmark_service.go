package service

import (
	"context"
	"log"
	"strings"
	"vibebench/internal/common"
	"vibebench/internal/domain/model"
	"vibebench/internal/domain/repository"
	"vibebench/internal/platform/cache"

	"github.com/gosimple/slug"
)

type BenchmarkService struct {
	benchmarkRepo  repository.BenchmarkRepository
	submissionRepo repository.SubmissionRepository
	views          *cache.ViewCache
}

func NewBenchmarkService(
	benchmarkRepo repository.BenchmarkRepository,
	submissionRepo repository.SubmissionRepository,
	views *cache.ViewCache,
) *BenchmarkService {
	return &BenchmarkService{
		benchmarkRepo:  benchmarkRepo,
		submissionRepo: submissionRepo,
		views:          views,
	}
}

type BenchmarkForm struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	RequirementDoc string `json:"requirement_doc"`
	PrototypeUrl   string `json:"prototype_url"`
	UserStories    string `json:"user_stories"`
	IsActive       *bool  `json:"is_active,omitempty"` // Update only; create defaults to true
}

// nullable normalizes blank optional fields to NULL rather than storing
// empty strings.
func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *BenchmarkService) Create(ctx context.Context, createdByID string, form BenchmarkForm) (*model.Benchmark, error) {
	if strings.TrimSpace(form.Title) == "" {
		return nil, common.Errorf("title is required: %w", common.ErrValidation)
	}

	benchmark := &model.Benchmark{
		ID:             slug.Make(form.Title),
		Title:          form.Title,
		Description:    nullable(form.Description),
		RequirementDoc: nullable(form.RequirementDoc),
		PrototypeUrl:   nullable(form.PrototypeUrl),
		UserStories:    nullable(form.UserStories),
		IsActive:       true,
		CreatedByID:    createdByID,
	}

	if err := s.benchmarkRepo.Create(ctx, benchmark); err != nil {
		return nil, common.Errorf("failed to create benchmark: %w", err)
	}

	s.views.Invalidate(ctx, cache.ViewBenchmarks, cache.ViewAdminBenchmarks)
	log.Printf("Benchmark %s created by %s", benchmark.ID, createdByID)
	return benchmark, nil
}

func (s *BenchmarkService) Update(ctx context.Context, id string, form BenchmarkForm) error {
	if strings.TrimSpace(form.Title) == "" {
		return common.Errorf("title is required: %w", common.ErrValidation)
	}

	existing, err := s.benchmarkRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	existing.Title = form.Title
	existing.Description = nullable(form.Description)
	existing.RequirementDoc = nullable(form.RequirementDoc)
	existing.PrototypeUrl = nullable(form.PrototypeUrl)
	existing.UserStories = nullable(form.UserStories)
	if form.IsActive != nil {
		existing.IsActive = *form.IsActive
	}

	if err := s.benchmarkRepo.Update(ctx, existing); err != nil {
		return common.Errorf("failed to update benchmark: %w", err)
	}

	s.views.Invalidate(ctx, cache.ViewBenchmarks, cache.ViewAdminBenchmarks, cache.ViewBenchmark(id))
	return nil
}

// Delete refuses to remove a benchmark that still has submissions;
// history is archived by flipping is_active off instead.
func (s *BenchmarkService) Delete(ctx context.Context, id string) error {
	count, err := s.benchmarkRepo.CountSubmissions(ctx, id)
	if err != nil {
		return common.Errorf("failed to count submissions: %w", err)
	}
	if count > 0 {
		return common.Errorf("benchmark has %d submissions, deactivate it instead: %w", count, common.ErrConflict)
	}

	if err := s.benchmarkRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.views.Invalidate(ctx, cache.ViewBenchmarks, cache.ViewAdminBenchmarks, cache.ViewBenchmark(id))
	return nil
}

func (s *BenchmarkService) GetBenchmarks(ctx context.Context) ([]model.Benchmark, error) {
	var benchmarks []model.Benchmark
	if s.views.Get(ctx, cache.ViewBenchmarks, &benchmarks) {
		return benchmarks, nil
	}

	benchmarks, err := s.benchmarkRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	s.views.Set(ctx, cache.ViewBenchmarks, benchmarks)
	return benchmarks, nil
}

func (s *BenchmarkService) GetAdminBenchmarks(ctx context.Context) ([]model.Benchmark, error) {
	var benchmarks []model.Benchmark
	if s.views.Get(ctx, cache.ViewAdminBenchmarks, &benchmarks) {
		return benchmarks, nil
	}

	benchmarks, err := s.benchmarkRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.views.Set(ctx, cache.ViewAdminBenchmarks, benchmarks)
	return benchmarks, nil
}

// GetBenchmark assembles the detail view: the benchmark with creator
// display fields plus its submissions list.
func (s *BenchmarkService) GetBenchmark(ctx context.Context, id string) (*model.Benchmark, error) {
	var benchmark model.Benchmark
	if s.views.Get(ctx, cache.ViewBenchmark(id), &benchmark) {
		return &benchmark, nil
	}

	found, err := s.benchmarkRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.ListByBenchmark(ctx, id)
	if err != nil {
		return nil, common.Errorf("failed to list submissions for benchmark %s: %w", id, err)
	}
	found.Submissions = submissions

	s.views.Set(ctx, cache.ViewBenchmark(id), found)
	return found, nil
}
