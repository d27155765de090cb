package handler

import (
	"net/http"
	"vibebench/internal/api/middleware"
	"vibebench/internal/app/service"
	"vibebench/internal/common"

	"github.com/go-chi/chi/v5"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(ls *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: ls}
}

// RegisterRoutes mounts the like endpoints under the submission subtree.
// Both accept anonymous callers; a session only strengthens the
// fingerprint.
func (h *LikeHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(likeRouter chi.Router) {
		likeRouter.Use(middleware.MaybeAuthenticator)
		likeRouter.Post("/{submissionID}/like", h.toggleLike)
		likeRouter.Get("/{submissionID}/liked", h.checkLiked)
	})
}

// Liked is always present; the unlike response is {"success":true,"liked":false}.
type ToggleLikeResult struct {
	Success bool   `json:"success"`
	Liked   bool   `json:"liked"`
	Error   string `json:"error,omitempty"`
}

func (h *LikeHandler) toggleLike(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submissionID")
	userID, _ := middleware.GetUserIDFromContext(r.Context()) // Empty for anonymous callers

	liked, err := h.likeService.Toggle(r.Context(), submissionID,
		userID, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		// The optimistic UI reverts on failure; keep the message generic.
		common.RespondWithJSON(w, common.HTTPStatusFromError(err),
			ToggleLikeResult{Success: false, Error: "Failed to toggle like"})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, ToggleLikeResult{Success: true, Liked: liked})
}

func (h *LikeHandler) checkLiked(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submissionID")
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	liked, err := h.likeService.CheckLiked(r.Context(), submissionID,
		userID, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		// Mirror the original behavior: failures read as "not liked".
		liked = false
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}
