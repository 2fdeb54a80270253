package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/career-day/services"
)

type PrizeHandler struct {
	claimService services.ClaimService
}

func NewPrizeHandler(cs services.ClaimService) *PrizeHandler {
	return &PrizeHandler{claimService: cs}
}

// List godoc
// @Summary Каталог призов по возрастанию стоимости
// @Tags prizes
// @Produce json
// @Success 200 {array} models.Prize
// @Router /prizes [get]
func (h *PrizeHandler) List(w http.ResponseWriter, r *http.Request) {
	prizes, err := h.claimService.ListPrizes(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, prizes, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Claim godoc
// @Summary Обменять очки на приз
// @Description Проверки по порядку: приз существует, есть в наличии, хватает очков, ещё не получен.
// @Tags prizes
// @Produce json
// @Param prizeID path int true "Prize ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Нет в наличии / не хватает очков"
// @Failure 404 {object} map[string]string "Приз не найден"
// @Failure 409 {object} map[string]string "Приз уже получен"
// @Failure 503 {object} map[string]string "Конфликт блокировок, повторите"
// @Security BearerAuth
// @Router /prizes/{prizeID}/claim [post]
func (h *PrizeHandler) Claim(w http.ResponseWriter, r *http.Request) {
	prizeID, err := getIDFromURL(r, "prizeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	receipt, err := h.claimService.ClaimPrize(r.Context(), userID, prizeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{
		"message":          fmt.Sprintf("Successfully claimed '%s'", receipt.PrizeName),
		"remaining_points": receipt.RemainingPoints,
		"prize_name":       receipt.PrizeName,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
