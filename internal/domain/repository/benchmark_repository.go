package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vibebench/internal/common"
	"vibebench/internal/domain/model"
)

type BenchmarkRepository interface {
	Create(ctx context.Context, b *model.Benchmark) error
	Update(ctx context.Context, b *model.Benchmark) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Benchmark, error)
	// ListActive returns public benchmarks, newest first, with creator
	// display fields and submission counts. ListAll is the admin variant
	// that includes inactive rows.
	ListActive(ctx context.Context) ([]model.Benchmark, error)
	ListAll(ctx context.Context) ([]model.Benchmark, error)
	CountSubmissions(ctx context.Context, benchmarkID string) (int, error)
	// Upsert inserts the benchmark or leaves an existing row untouched.
	// Used by the seeder.
	Upsert(ctx context.Context, b *model.Benchmark) error
}

type pgBenchmarkRepository struct {
	db *sql.DB
}

func NewPgBenchmarkRepository(db *sql.DB) BenchmarkRepository {
	return &pgBenchmarkRepository{db: db}
}

func (r *pgBenchmarkRepository) Create(ctx context.Context, b *model.Benchmark) error {
	query := `INSERT INTO benchmarks (id, title, description, requirement_doc, prototype_url, user_stories, is_active, created_by_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Title, b.Description, b.RequirementDoc, b.PrototypeUrl, b.UserStories, b.IsActive, b.CreatedByID)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("benchmark with this title already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgBenchmarkRepository.Create: %w", err)
	}
	return nil
}

func (r *pgBenchmarkRepository) Update(ctx context.Context, b *model.Benchmark) error {
	query := `UPDATE benchmarks
	          SET title = $2, description = $3, requirement_doc = $4, prototype_url = $5,
	              user_stories = $6, is_active = $7, updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		b.ID, b.Title, b.Description, b.RequirementDoc, b.PrototypeUrl, b.UserStories, b.IsActive)
	if err != nil {
		return fmt.Errorf("pgBenchmarkRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgBenchmarkRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM benchmarks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgBenchmarkRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

const benchmarkSelect = `
	SELECT b.id, b.title, b.description, b.requirement_doc, b.prototype_url, b.user_stories,
	       b.is_active, b.created_by_id, b.created_at, b.updated_at,
	       u.name, u.image,
	       (SELECT COUNT(*) FROM submissions s WHERE s.benchmark_id = b.id)
	FROM benchmarks b
	JOIN users u ON u.id = b.created_by_id`

func (r *pgBenchmarkRepository) FindByID(ctx context.Context, id string) (*model.Benchmark, error) {
	b := &model.Benchmark{}
	var creatorName string
	err := r.db.QueryRowContext(ctx, benchmarkSelect+` WHERE b.id = $1`, id).Scan(
		&b.ID, &b.Title, &b.Description, &b.RequirementDoc, &b.PrototypeUrl, &b.UserStories,
		&b.IsActive, &b.CreatedByID, &b.CreatedAt, &b.UpdatedAt,
		&creatorName, &b.CreatedByImage, &b.SubmissionCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgBenchmarkRepository.FindByID: %w", err)
	}
	b.CreatedByName = &creatorName
	return b, nil
}

func (r *pgBenchmarkRepository) ListActive(ctx context.Context) ([]model.Benchmark, error) {
	return r.list(ctx, benchmarkSelect+` WHERE b.is_active ORDER BY b.created_at DESC`)
}

func (r *pgBenchmarkRepository) ListAll(ctx context.Context) ([]model.Benchmark, error) {
	return r.list(ctx, benchmarkSelect+` ORDER BY b.created_at DESC`)
}

func (r *pgBenchmarkRepository) list(ctx context.Context, query string) ([]model.Benchmark, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgBenchmarkRepository.list: %w", err)
	}
	defer rows.Close()

	benchmarks := []model.Benchmark{}
	for rows.Next() {
		var b model.Benchmark
		var creatorName string
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Description, &b.RequirementDoc, &b.PrototypeUrl, &b.UserStories,
			&b.IsActive, &b.CreatedByID, &b.CreatedAt, &b.UpdatedAt,
			&creatorName, &b.CreatedByImage, &b.SubmissionCount,
		); err != nil {
			return nil, fmt.Errorf("pgBenchmarkRepository.list scan: %w", err)
		}
		b.CreatedByName = &creatorName
		benchmarks = append(benchmarks, b)
	}
	return benchmarks, rows.Err()
}

func (r *pgBenchmarkRepository) CountSubmissions(ctx context.Context, benchmarkID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE benchmark_id = $1`, benchmarkID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgBenchmarkRepository.CountSubmissions: %w", err)
	}
	return count, nil
}

func (r *pgBenchmarkRepository) Upsert(ctx context.Context, b *model.Benchmark) error {
	query := `INSERT INTO benchmarks (id, title, description, requirement_doc, prototype_url, user_stories, is_active, created_by_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Title, b.Description, b.RequirementDoc, b.PrototypeUrl, b.UserStories, b.IsActive, b.CreatedByID)
	if err != nil {
		return fmt.Errorf("pgBenchmarkRepository.Upsert: %w", err)
	}
	return nil
}
