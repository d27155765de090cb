package main

import (
	"context"
	"errors"
	"log"
	"vibebench/internal/common"
	"vibebench/internal/common/security"
	"vibebench/internal/domain/model"
	"vibebench/internal/domain/repository"
	"vibebench/internal/platform/config"
	"vibebench/internal/platform/database"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type seedBenchmark struct {
	title       string
	description string
	isActive    bool
	submissions []seedSubmission
}

type seedSubmission struct {
	baseModel  string
	codingTool string
	repoUrl    string
	authorName string
}

var benchmarks = []seedBenchmark{
	{
		title:       "Python Data Analysis Agent",
		description: "Build a Python agent capable of loading a CSV, cleaning data, and generating matplotlib visualizations based on natural language queries.",
		isActive:    true,
		submissions: []seedSubmission{
			{baseModel: "gpt-4-turbo", codingTool: "cursor", repoUrl: "https://github.com/example/python-agent", authorName: "DevOne"},
			{baseModel: "claude-3.5-sonnet", codingTool: "windsurf", repoUrl: "https://github.com/example/sonnet-agent", authorName: "DevTwo"},
		},
	},
	{
		title:       "React Dashboard Component",
		description: "Generate a responsive dashboard component using Tailwind CSS, including a sidebar, header, and data charts (Recharts). Must be fully typed.",
		isActive:    true,
	},
	{
		title:       "Golang REST API Service",
		description: "Implement a high-performance REST API in Go using Gin or Chi. Requirements: JWT Auth, PostgreSQL integration, and >80% test coverage.",
		isActive:    true,
	},
	{
		title:       "Legacy PHP Migration",
		description: "Refactor a legacy PHP 5.6 script to modern PHP 8.2, maintaining functionality while fixing security vulnerabilities.",
		isActive:    false, // Archived
	},
	{
		title:       "Prompt Engineering Challenge",
		description: "Optimize a system prompt to make a local Llama 3 model output valid JSON consistently for complex reasoning tasks.",
		isActive:    true,
	},
}

func main() {
	config.Load()
	database.Connect()
	defer database.Close()

	if err := database.EnsureSchema(database.DB); err != nil {
		log.Fatalf("Could not ensure database schema: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewPgUserRepository(database.DB)
	benchmarkRepo := repository.NewPgBenchmarkRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)

	log.Println("Starting seed...")

	adminEmail := "admin@vibebench.ai"
	if len(config.AppConfig.AdminEmails) > 0 {
		adminEmail = config.AppConfig.AdminEmails[0]
	}

	hashed, err := security.HashPassword(uuid.NewString()) // Unusable until reset
	if err != nil {
		log.Fatalf("Could not hash seed password: %v", err)
	}
	image := "https://avatars.githubusercontent.com/u/12345678?v=4"
	admin, err := userRepo.UpsertByEmail(ctx, &model.User{
		ID:             uuid.NewString(),
		Email:          adminEmail,
		Name:           "VibeBench System",
		Image:          &image,
		HashedPassword: hashed,
		Role:           model.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("Could not ensure admin user: %v", err)
	}
	log.Printf("System user ensured: %s", admin.Email)

	for _, sb := range benchmarks {
		id := slug.Make(sb.title)
		if _, err := benchmarkRepo.FindByID(ctx, id); err == nil {
			log.Printf("Benchmark exists, skipping: %s", sb.title)
			continue
		} else if !errors.Is(err, common.ErrNotFound) {
			log.Fatalf("Could not check benchmark %s: %v", id, err)
		}

		desc := sb.description
		benchmark := &model.Benchmark{
			ID:          id,
			Title:       sb.title,
			Description: &desc,
			IsActive:    sb.isActive,
			CreatedByID: admin.ID,
		}
		if err := benchmarkRepo.Upsert(ctx, benchmark); err != nil {
			log.Fatalf("Could not seed benchmark %s: %v", id, err)
		}

		for _, ss := range sb.submissions {
			authorName := ss.authorName
			submission := &model.Submission{
				ID:           uuid.NewString(),
				BenchmarkID:  id,
				UserID:       admin.ID,
				Status:       model.StatusApproved,
				RepoUrl:      ss.repoUrl,
				BaseModel:    ss.baseModel,
				CodingTool:   ss.codingTool,
				Plugins:      []string{},
				AuthorName:   &authorName,
				ChatLogFiles: []string{},
			}
			if err := submissionRepo.Create(ctx, submission); err != nil {
				log.Fatalf("Could not seed submission for %s: %v", id, err)
			}
		}
		log.Printf("Benchmark seeded: %s", sb.title)
	}

	log.Println("Seed finished.")
}
