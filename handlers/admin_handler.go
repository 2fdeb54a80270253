package handlers

import (
	"net/http"

	"github.com/Dosada05/career-day/services"
)

// AdminHandler обслуживает /admin/*; доступ проверяет middleware.RequireAdmin.
type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(as services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: as}
}

func (h *AdminHandler) respond(w http.ResponseWriter, r *http.Request, status int, data interface{}, err error) {
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, status, data, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Analytics godoc
// @Summary Счётчики воронки
// @Tags admin
// @Produce json
// @Success 200 {object} models.Analytics
// @Security BearerAuth
// @Router /admin/analytics [get]
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.adminService.Analytics(r.Context())
	h.respond(w, r, http.StatusOK, a, err)
}

// Users godoc
// @Summary Зарегистрированные участники
// @Tags admin
// @Produce json
// @Success 200 {array} models.UserSummary
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	h.respond(w, r, http.StatusOK, users, err)
}

// Applications godoc
// @Summary Все заявки с email аккаунта
// @Tags admin
// @Produce json
// @Success 200 {array} models.Application
// @Security BearerAuth
// @Router /admin/applications [get]
func (h *AdminHandler) Applications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.adminService.ListApplications(r.Context())
	h.respond(w, r, http.StatusOK, apps, err)
}

// GetSettings godoc
// @Summary Настройки мероприятия
// @Tags admin
// @Produce json
// @Success 200 {object} models.EventSettings
// @Security BearerAuth
// @Router /admin/settings [get]
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.adminService.GetSettings(r.Context())
	h.respond(w, r, http.StatusOK, s, err)
}

// UpdateSettings godoc
// @Summary Частичное обновление настроек
// @Tags admin
// @Accept json
// @Produce json
// @Param input body services.SettingsUpdateInput true "Поля для изменения"
// @Success 200 {object} models.EventSettings
// @Security BearerAuth
// @Router /admin/settings [patch]
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input services.SettingsUpdateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	s, err := h.adminService.UpdateSettings(r.Context(), input)
	h.respond(w, r, http.StatusOK, s, err)
}

// ListPrizes godoc
// @Summary Все призы
// @Tags admin
// @Produce json
// @Success 200 {array} models.Prize
// @Security BearerAuth
// @Router /admin/prizes [get]
func (h *AdminHandler) ListPrizes(w http.ResponseWriter, r *http.Request) {
	prizes, err := h.adminService.ListPrizes(r.Context())
	h.respond(w, r, http.StatusOK, prizes, err)
}

// CreatePrize godoc
// @Summary Создать приз
// @Tags admin
// @Accept json
// @Produce json
// @Param input body services.PrizeInput true "Приз"
// @Success 201 {object} models.Prize
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /admin/prizes [post]
func (h *AdminHandler) CreatePrize(w http.ResponseWriter, r *http.Request) {
	var input services.PrizeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	p, err := h.adminService.CreatePrize(r.Context(), input)
	h.respond(w, r, http.StatusCreated, p, err)
}

// UpdatePrize godoc
// @Summary Изменить приз (только переданные поля)
// @Tags admin
// @Accept json
// @Produce json
// @Param prizeID path int true "Prize ID"
// @Param input body services.PrizeUpdateInput true "Поля для изменения"
// @Success 200 {object} models.Prize
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/prizes/{prizeID} [put]
func (h *AdminHandler) UpdatePrize(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "prizeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.PrizeUpdateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	p, err := h.adminService.UpdatePrize(r.Context(), id, input)
	h.respond(w, r, http.StatusOK, p, err)
}

// DeletePrize godoc
// @Summary Удалить приз
// @Tags admin
// @Produce json
// @Param prizeID path int true "Prize ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/prizes/{prizeID} [delete]
func (h *AdminHandler) DeletePrize(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "prizeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	err = h.adminService.DeletePrize(r.Context(), id)
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Prize deleted successfully"}, err)
}

// ListQuestions godoc
// @Summary Вопросы теста
// @Tags admin
// @Produce json
// @Success 200 {array} models.TestQuestion
// @Security BearerAuth
// @Router /admin/questions [get]
func (h *AdminHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.adminService.ListQuestions(r.Context())
	h.respond(w, r, http.StatusOK, qs, err)
}

// CreateQuestion godoc
// @Summary Добавить вопрос теста
// @Tags admin
// @Accept json
// @Produce json
// @Param input body services.QuestionInput true "Вопрос"
// @Success 201 {object} models.TestQuestion
// @Security BearerAuth
// @Router /admin/questions [post]
func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var input services.QuestionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	q, err := h.adminService.CreateQuestion(r.Context(), input)
	h.respond(w, r, http.StatusCreated, q, err)
}

// UpdateQuestion godoc
// @Summary Изменить вопрос (только переданные поля)
// @Tags admin
// @Accept json
// @Produce json
// @Param questionID path int true "Question ID"
// @Param input body services.QuestionUpdateInput true "Поля для изменения"
// @Success 200 {object} models.TestQuestion
// @Security BearerAuth
// @Router /admin/questions/{questionID} [put]
func (h *AdminHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "questionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.QuestionUpdateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	q, err := h.adminService.UpdateQuestion(r.Context(), id, input)
	h.respond(w, r, http.StatusOK, q, err)
}

// DeleteQuestion godoc
// @Summary Удалить вопрос
// @Tags admin
// @Produce json
// @Param questionID path int true "Question ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /admin/questions/{questionID} [delete]
func (h *AdminHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "questionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	err = h.adminService.DeleteQuestion(r.Context(), id)
	h.respond(w, r, http.StatusOK, jsonResponse{"message": "Question deleted successfully"}, err)
}
