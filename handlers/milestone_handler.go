package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/career-day/services"
)

type MilestoneHandler struct {
	milestoneService services.MilestoneService
	maxUploadSize    int64
}

func NewMilestoneHandler(ms services.MilestoneService, maxUploadSize int64) *MilestoneHandler {
	return &MilestoneHandler{
		milestoneService: ms,
		maxUploadSize:    maxUploadSize,
	}
}

type testResultRequest struct {
	Result string `json:"result"`
}

// Questions godoc
// @Summary Вопросы теста в порядке показа
// @Tags test
// @Produce json
// @Success 200 {array} models.TestQuestion
// @Security BearerAuth
// @Router /test/questions [get]
func (h *MilestoneHandler) Questions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.milestoneService.ListQuestions(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, questions, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CompleteTest godoc
// @Summary Завершить тест (+15 очков, один раз)
// @Tags test
// @Accept json
// @Produce json
// @Param input body testResultRequest true "developer | designer"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неверное направление"
// @Failure 409 {object} map[string]string "Тест уже пройден"
// @Security BearerAuth
// @Router /test/complete [post]
func (h *MilestoneHandler) CompleteTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var input testResultRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.milestoneService.CompleteTest(r.Context(), userID, input.Result)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{
		"message":       "Test completed successfully",
		"result":        res.Result,
		"points_earned": res.PointsEarned,
		"total_points":  res.TotalPoints,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SkipTest godoc
// @Summary Пропустить тест без очков
// @Tags test
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "Тест уже пройден"
// @Security BearerAuth
// @Router /test/skip [post]
func (h *MilestoneHandler) SkipTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.milestoneService.SkipTest(r.Context(), userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Test skipped"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetDirection godoc
// @Summary Выбрать направление вручную
// @Tags test
// @Accept json
// @Produce json
// @Param input body testResultRequest true "developer | designer"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Прогресс не найден"
// @Security BearerAuth
// @Router /test/set-direction [post]
func (h *MilestoneHandler) SetDirection(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var input testResultRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	direction, err := h.milestoneService.SetDirection(r.Context(), userID, input.Result)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"message": "Direction set successfully", "direction": direction}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CompleteGame godoc
// @Summary Завершить мини-игру (25 + min(score/2, 25) очков, один раз)
// @Tags games
// @Accept json
// @Produce json
// @Param input body services.GameInput true "Счёт и тип игры"
// @Success 200 {object} services.GameResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Игра уже пройдена"
// @Security BearerAuth
// @Router /games/complete [post]
func (h *MilestoneHandler) CompleteGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var input services.GameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.milestoneService.CompleteGame(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitApplication godoc
// @Summary Подать заявку на стажировку (+35 очков)
// @Tags applications
// @Accept multipart/form-data
// @Produce json
// @Param full_name formData string true "ФИО"
// @Param email formData string true "Email"
// @Param phone formData string true "Телефон"
// @Param direction formData string true "developer | designer"
// @Param motivation formData string false "Мотивация"
// @Param resume formData file false "Резюме (.pdf, .doc, .docx)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Заявка уже подана"
// @Security BearerAuth
// @Router /applications [post]
func (h *MilestoneHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	// небольшой запас сверх файла на остальные поля формы
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+maxJSONBytes)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			mapServiceErrorToHTTP(w, r, fmt.Errorf("%w: file too large, max size %d bytes", services.ErrInvalidFile, h.maxUploadSize))
			return
		}
		badRequestResponse(w, r, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	input := services.ApplicationInput{
		FullName:  r.FormValue("full_name"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phone"),
		Direction: r.FormValue("direction"),
	}
	if motivation := r.FormValue("motivation"); motivation != "" {
		input.Motivation = &motivation
	}

	file, header, err := r.FormFile("resume")
	switch {
	case err == nil:
		defer file.Close()
		input.Resume = &services.ResumeFile{Filename: header.Filename, Body: file}
	case errors.Is(err, http.ErrMissingFile):
	default:
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.milestoneService.SubmitApplication(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{
		"message":       "Application submitted successfully",
		"points_earned": res.PointsEarned,
		"total_points":  res.TotalPoints,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MyApplication godoc
// @Summary Заявка текущего участника или null
// @Tags applications
// @Produce json
// @Success 200 {object} models.Application
// @Security BearerAuth
// @Router /applications/me [get]
func (h *MilestoneHandler) MyApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	app, err := h.milestoneService.GetApplication(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, app, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
