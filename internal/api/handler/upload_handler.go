package handler

import (
	"encoding/json"
	"net/http"
	"vibebench/internal/api/middleware"
	"vibebench/internal/app/service"
	"vibebench/internal/common"

	"github.com/go-chi/chi/v5"
)

type UploadHandler struct {
	uploadService *service.UploadService
}

func NewUploadHandler(us *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: us}
}

func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Authenticator) // Upload tokens require a session
		authRouter.Post("/presign", h.presignUpload)
	})
}

type PresignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

func (h *UploadHandler) presignUpload(w http.ResponseWriter, r *http.Request) {
	var req PresignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.uploadService.PresignUpload(r.Context(), req.Filename, req.ContentType)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
