package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/career-day/services"
)

type UserHandler struct {
	authService      services.AuthService
	milestoneService services.MilestoneService
	claimService     services.ClaimService
}

func NewUserHandler(as services.AuthService, ms services.MilestoneService, cs services.ClaimService) *UserHandler {
	return &UserHandler{
		authService:      as,
		milestoneService: ms,
		claimService:     cs,
	}
}

// Me godoc
// @Summary Текущий пользователь с прогрессом
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// progress отдаём явным null, если строки ещё нет
	resp := jsonResponse{
		"id":         user.ID,
		"email":      user.Email,
		"is_admin":   user.IsAdmin,
		"is_active":  user.IsActive,
		"created_at": user.CreatedAt,
		"progress":   user.Progress,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Progress godoc
// @Summary Прогресс участника (создаётся при первом запросе)
// @Tags users
// @Produce json
// @Success 200 {object} models.Progress
// @Security BearerAuth
// @Router /users/me/progress [get]
func (h *UserHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	progress, err := h.milestoneService.GetProgress(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, progress, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ClaimedPrizes godoc
// @Summary Полученные призы, новые первыми
// @Tags users
// @Produce json
// @Success 200 {array} models.Claim
// @Security BearerAuth
// @Router /users/me/claimed-prizes [get]
func (h *UserHandler) ClaimedPrizes(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	claims, err := h.claimService.ListClaimed(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, claims, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ParticipantClaims godoc
// @Summary Призы конкретного участника (для стойки выдачи)
// @Tags admin
// @Produce json
// @Param userID path int true "ID участника"
// @Success 200 {array} models.Claim
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/users/{userID}/claimed-prizes [get]
func (h *UserHandler) ParticipantClaims(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// пустой список и несуществующий участник - разные ответы
	exists, err := h.authService.Exists(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if !exists {
		mapServiceErrorToHTTP(w, r, fmt.Errorf("%w: user %d not found", services.ErrNotFound, userID))
		return
	}

	claims, err := h.claimService.ListClaimed(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, claims, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
