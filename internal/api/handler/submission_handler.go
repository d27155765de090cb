package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"vibebench/internal/api/middleware"
	"vibebench/internal/app/service"
	"vibebench/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listSubmissions)             // GET /api/v1/submissions (approved only)
	r.Get("/{submissionID}", h.getSubmission) // GET /api/v1/submissions/{id}
}

// RegisterIntakeRoutes mounts the submit endpoint under the benchmark
// subtree; submitting requires a signed-in session.
func (h *SubmissionHandler) RegisterIntakeRoutes(r chi.Router) {
	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Authenticator)
		authRouter.Post("/{benchmarkID}/submissions", h.submitSolution)
	})
}

// RegisterDashboardRoutes mounts the caller's own-submissions view.
func (h *SubmissionHandler) RegisterDashboardRoutes(r chi.Router) {
	r.Get("/submissions", h.listMySubmissions)
}

// RegisterAdminRoutes mounts the moderation queue and actions. The
// caller wires the auth + admin middleware.
func (h *SubmissionHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/submissions", h.listPendingSubmissions)
	r.Post("/submissions/{submissionID}/approve", h.approveSubmission)
	r.Post("/submissions/{submissionID}/reject", h.rejectSubmission)
}

// echoFields mirrors the submitted values back so the form can re-render
// the inputs after a validation failure.
func echoFields(form service.SubmitForm) map[string]string {
	return map[string]string{
		"repo_url":       form.RepoUrl,
		"base_model":     form.BaseModel,
		"coding_tool":    form.CodingTool,
		"plugins":        form.Plugins,
		"author_name":    form.AuthorName,
		"author_email":   form.AuthorEmail,
		"chat_log_url":   form.ChatLogUrl,
		"chat_log_text":  form.ChatLogText,
		"chat_log_files": strings.Join(form.ChatLogFiles, ","),
	}
}

func (h *SubmissionHandler) submitSolution(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "You must be logged in to submit a solution.")
		return
	}
	benchmarkID := chi.URLParam(r, "benchmarkID")

	var form service.SubmitForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	submission, fieldErrors, err := h.submissionService.Submit(r.Context(), benchmarkID, userID, form)
	if fieldErrors != nil {
		common.RespondWithValidationErrors(w, common.ValidationResponse{
			Errors:  fieldErrors,
			Message: "Validation Failed. Please check your inputs.",
			Fields:  echoFields(form),
		})
		return
	}
	if err != nil {
		// Never leak raw store errors on the intake path; the full detail
		// is already logged server-side.
		status := common.HTTPStatusFromError(err)
		if status == http.StatusInternalServerError {
			common.RespondWithError(w, status, "Database Error: Failed to Create Submission.")
			return
		}
		common.RespondWithError(w, status, err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"submission_id": submission.ID,
		"redirect":      "/benchmarks/" + benchmarkID + "/submit/success",
	})
}

func (h *SubmissionHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.submissionService.GetAllSubmissions(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submissionID")

	submission, err := h.submissionService.GetSubmission(r.Context(), submissionID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submission)
}

func (h *SubmissionHandler) listMySubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	submissions, err := h.submissionService.GetUserSubmissions(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) listPendingSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.submissionService.GetPendingSubmissions(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) approveSubmission(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.submissionService.Approve)
}

func (h *SubmissionHandler) rejectSubmission(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.submissionService.Reject)
}

func (h *SubmissionHandler) moderate(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id string) error) {
	submissionID := chi.URLParam(r, "submissionID")

	if err := action(r.Context(), submissionID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
