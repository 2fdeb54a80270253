package handlers

import (
	"errors"
	"mime"
	"net/http"

	"github.com/Dosada05/career-day/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register godoc
// @Summary Регистрация участника
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.RegisterInput true "Email и пароль"
// @Success 201 {object} utils.TokenPair
// @Failure 409 {object} map[string]string "Email уже занят"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, res.Tokens, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Login godoc
// @Summary Вход по email и паролю
// @Description Принимает JSON {email, password} или OAuth2-форму (username, password).
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param input body services.LoginInput true "Учётные данные"
// @Success 200 {object} utils.TokenPair
// @Failure 401 {object} map[string]string "Incorrect email or password"
// @Failure 403 {object} map[string]string "Inactive user"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
		if err := r.ParseForm(); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		input.Email = r.PostForm.Get("username")
		input.Password = r.PostForm.Get("password")
	} else if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrAuthInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			unauthorizedResponse(w, r, "Incorrect email or password")
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, res.Tokens, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Refresh godoc
// @Summary Обновить пару токенов
// @Tags auth
// @Accept json
// @Produce json
// @Param input body refreshRequest true "Refresh token"
// @Success 200 {object} utils.TokenPair
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input refreshRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.RefreshToken == "" {
		unauthorizedResponse(w, r, "Invalid refresh token")
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, tokens, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
