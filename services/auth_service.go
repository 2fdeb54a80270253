package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/career-day/models"
	"github.com/Dosada05/career-day/repositories"
	"github.com/Dosada05/career-day/utils"
)

// Identity - аутентифицированный участник, которого middleware кладёт в контекст.
type Identity struct {
	UserID  int
	IsAdmin bool
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	User   *models.User
	Tokens *utils.TokenPair
}

// AuthService is the account directory: registration, credentials and token checks.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	Resolve(ctx context.Context, accessToken string) (*Identity, error)
	Exists(ctx context.Context, userID int) (bool, error)
	GetProfile(ctx context.Context, userID int) (*models.User, error)
}

type authService struct {
	db           *sql.DB
	userRepo     repositories.UserRepository
	progressRepo repositories.ProgressRepository
	tokens       *utils.TokenIssuer
	logger       *slog.Logger
}

func NewAuthService(
	db *sql.DB,
	userRepo repositories.UserRepository,
	progressRepo repositories.ProgressRepository,
	tokens *utils.TokenIssuer,
	logger *slog.Logger,
) AuthService {
	return &authService{
		db:           db,
		userRepo:     userRepo,
		progressRepo: progressRepo,
		tokens:       tokens,
		logger:       logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создаёт пользователя и его прогресс в одной транзакции.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: hash,
		IsAdmin:      false,
		IsActive:     true,
	}

	err = runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			if errors.Is(err, repositories.ErrUserEmailConflict) {
				return fmt.Errorf("%w: email already registered", ErrAuthEmailTaken)
			}
			return err
		}
		return s.progressRepo.EnsureExists(ctx, tx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered", slog.Int("user_id", user.ID))
	user.PasswordHash = ""
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	ok, err := utils.CheckPasswordHash(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}
	if !ok {
		return nil, ErrAuthInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	tokens, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := s.tokens.Parse(refreshToken, utils.TokenRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrAuthenticationFailed)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user not found or inactive", ErrAuthenticationFailed)
		}
		return nil, fmt.Errorf("failed to load user %d: %w", claims.UserID, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user not found or inactive", ErrAuthenticationFailed)
	}

	return s.tokens.Issue(user.ID, user.IsAdmin)
}

// Resolve turns an access token into an Identity. The admin flag is taken from
// the stored user, not from the token.
func (s *authService) Resolve(ctx context.Context, accessToken string) (*Identity, error) {
	claims, err := s.tokens.Parse(accessToken, utils.TokenAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: could not validate credentials", ErrAuthenticationFailed)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: could not validate credentials", ErrAuthenticationFailed)
		}
		return nil, fmt.Errorf("failed to load user %d: %w", claims.UserID, err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return &Identity{UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}

func (s *authService) Exists(ctx context.Context, userID int) (bool, error) {
	return s.userRepo.Exists(ctx, userID)
}

// GetProfile возвращает пользователя с прогрессом (progress = nil, если строки ещё нет).
func (s *authService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	user.PasswordHash = ""

	progress, err := s.progressRepo.GetByUserID(ctx, nil, userID)
	if err != nil && !errors.Is(err, repositories.ErrProgressNotFound) {
		return nil, fmt.Errorf("failed to get progress for user %d: %w", userID, err)
	}
	user.Progress = progress
	return user, nil
}
