package handler

import (
	"encoding/json"
	"net/http"
	"vibebench/internal/api/middleware"
	"vibebench/internal/app/service"
	"vibebench/internal/common"
	"vibebench/internal/domain/repository"

	"github.com/go-chi/chi/v5"
)

type BenchmarkHandler struct {
	benchmarkService *service.BenchmarkService
	userRepo         repository.UserRepository // For admin re-validation
}

func NewBenchmarkHandler(bs *service.BenchmarkService, userRepo repository.UserRepository) *BenchmarkHandler {
	return &BenchmarkHandler{benchmarkService: bs, userRepo: userRepo}
}

func (h *BenchmarkHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listBenchmarks)            // GET /api/v1/benchmarks
	r.Get("/{benchmarkID}", h.getBenchmark) // GET /api/v1/benchmarks/python-data-analysis-agent

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.RequireAdmin(h.userRepo))
		adminRouter.Post("/", h.createBenchmark)
		adminRouter.Put("/{benchmarkID}", h.updateBenchmark)
		adminRouter.Delete("/{benchmarkID}", h.deleteBenchmark)
	})
}

// RegisterAdminRoutes mounts the admin-only listing that includes
// inactive benchmarks. The caller wires the auth middleware.
func (h *BenchmarkHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/benchmarks", h.listAdminBenchmarks)
}

// ActionResult is the uniform mutation envelope: admin CRUD surfaces a
// single banner error rather than field-level feedback.
type ActionResult struct {
	Success     bool   `json:"success"`
	BenchmarkID string `json:"benchmark_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (h *BenchmarkHandler) createBenchmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var form service.BenchmarkForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	benchmark, err := h.benchmarkService.Create(r.Context(), userID, form)
	if err != nil {
		common.RespondWithJSON(w, common.HTTPStatusFromError(err), ActionResult{Success: false, Error: err.Error()})
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, ActionResult{Success: true, BenchmarkID: benchmark.ID})
}

func (h *BenchmarkHandler) updateBenchmark(w http.ResponseWriter, r *http.Request) {
	benchmarkID := chi.URLParam(r, "benchmarkID")

	var form service.BenchmarkForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := h.benchmarkService.Update(r.Context(), benchmarkID, form); err != nil {
		common.RespondWithJSON(w, common.HTTPStatusFromError(err), ActionResult{Success: false, Error: err.Error()})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, ActionResult{Success: true})
}

func (h *BenchmarkHandler) deleteBenchmark(w http.ResponseWriter, r *http.Request) {
	benchmarkID := chi.URLParam(r, "benchmarkID")

	if err := h.benchmarkService.Delete(r.Context(), benchmarkID); err != nil {
		common.RespondWithJSON(w, common.HTTPStatusFromError(err), ActionResult{Success: false, Error: err.Error()})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, ActionResult{Success: true})
}

func (h *BenchmarkHandler) listBenchmarks(w http.ResponseWriter, r *http.Request) {
	benchmarks, err := h.benchmarkService.GetBenchmarks(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, benchmarks)
}

func (h *BenchmarkHandler) listAdminBenchmarks(w http.ResponseWriter, r *http.Request) {
	benchmarks, err := h.benchmarkService.GetAdminBenchmarks(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, benchmarks)
}

func (h *BenchmarkHandler) getBenchmark(w http.ResponseWriter, r *http.Request) {
	benchmarkID := chi.URLParam(r, "benchmarkID")

	benchmark, err := h.benchmarkService.GetBenchmark(r.Context(), benchmarkID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, benchmark)
}
