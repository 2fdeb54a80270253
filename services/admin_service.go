package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/career-day/models"
	"github.com/Dosada05/career-day/repositories"
)

type PrizeInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Points      int     `json:"points" validate:"gt=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Description *string `json:"description"`
}

// PrizeUpdateInput - частичное обновление: nil поля не меняются.
type PrizeUpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Points      *int    `json:"points" validate:"omitempty,gt=0"`
	Quantity    *int    `json:"quantity" validate:"omitempty,gte=0"`
	Description *string `json:"description"`
}

type QuestionInput struct {
	Question string                  `json:"question" validate:"required,max=500"`
	Options  []models.QuestionOption `json:"options" validate:"required,min=2,dive"`
	Order    int                     `json:"order" validate:"gte=0"`
}

type QuestionUpdateInput struct {
	Question *string                 `json:"question" validate:"omitempty,min=1,max=500"`
	Options  []models.QuestionOption `json:"options" validate:"omitempty,min=2,dive"`
	Order    *int                    `json:"order" validate:"omitempty,gte=0"`
}

type SettingsUpdateInput struct {
	EventName   *string `json:"event_name" validate:"omitempty,min=1,max=255"`
	WelcomeText *string `json:"welcome_text"`
}

type AdminService interface {
	Analytics(ctx context.Context) (*models.Analytics, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
	ListApplications(ctx context.Context) ([]models.Application, error)

	GetSettings(ctx context.Context) (*models.EventSettings, error)
	UpdateSettings(ctx context.Context, input SettingsUpdateInput) (*models.EventSettings, error)

	ListPrizes(ctx context.Context) ([]models.Prize, error)
	CreatePrize(ctx context.Context, input PrizeInput) (*models.Prize, error)
	UpdatePrize(ctx context.Context, id int, input PrizeUpdateInput) (*models.Prize, error)
	DeletePrize(ctx context.Context, id int) error

	ListQuestions(ctx context.Context) ([]models.TestQuestion, error)
	CreateQuestion(ctx context.Context, input QuestionInput) (*models.TestQuestion, error)
	UpdateQuestion(ctx context.Context, id int, input QuestionUpdateInput) (*models.TestQuestion, error)
	DeleteQuestion(ctx context.Context, id int) error
}

type adminService struct {
	userRepo     repositories.UserRepository
	progressRepo repositories.ProgressRepository
	appRepo      repositories.ApplicationRepository
	prizeRepo    repositories.PrizeRepository
	questionRepo repositories.QuestionRepository
	settingsRepo repositories.SettingsRepository
	notifier     StockNotifier
	resumeURL    func(key string) string
	logger       *slog.Logger
}

func NewAdminService(
	userRepo repositories.UserRepository,
	progressRepo repositories.ProgressRepository,
	appRepo repositories.ApplicationRepository,
	prizeRepo repositories.PrizeRepository,
	questionRepo repositories.QuestionRepository,
	settingsRepo repositories.SettingsRepository,
	notifier StockNotifier,
	resumeURL func(key string) string,
	logger *slog.Logger,
) AdminService {
	return &adminService{
		userRepo:     userRepo,
		progressRepo: progressRepo,
		appRepo:      appRepo,
		prizeRepo:    prizeRepo,
		questionRepo: questionRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
		resumeURL:    resumeURL,
		logger:       logger,
	}
}

// Analytics считает четыре счётчика воронки параллельно.
func (s *adminService) Analytics(ctx context.Context) (*models.Analytics, error) {
	var a models.Analytics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		a.Registrations, err = s.userRepo.CountParticipants(gctx)
		return err
	})
	g.Go(func() (err error) {
		a.TestsCompleted, err = s.progressRepo.CountMilestone(gctx, models.MilestoneTest)
		return err
	})
	g.Go(func() (err error) {
		a.GamesCompleted, err = s.progressRepo.CountMilestone(gctx, models.MilestoneGame)
		return err
	})
	g.Go(func() (err error) {
		a.Applications, err = s.appRepo.Count(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect analytics: %w", err)
	}
	return &a, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	return s.userRepo.ListParticipants(ctx)
}

func (s *adminService) ListApplications(ctx context.Context) ([]models.Application, error) {
	apps, err := s.appRepo.ListWithUsers(ctx)
	if err != nil {
		return nil, err
	}
	if s.resumeURL != nil {
		for i := range apps {
			if apps[i].ResumePath != nil {
				if u := s.resumeURL(*apps[i].ResumePath); u != "" {
					apps[i].ResumePath = &u
				}
			}
		}
	}
	return apps, nil
}

// GetSettings returns the settings row, creating the default one on first access.
func (s *adminService) GetSettings(ctx context.Context) (*models.EventSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repositories.ErrSettingsNotFound) {
		return nil, err
	}

	welcome := models.DefaultWelcomeText
	settings = &models.EventSettings{EventName: models.DefaultEventName, WelcomeText: &welcome}
	if err := s.settingsRepo.Create(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *adminService) UpdateSettings(ctx context.Context, input SettingsUpdateInput) (*models.EventSettings, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if input.EventName != nil {
		settings.EventName = strings.TrimSpace(*input.EventName)
	}
	if input.WelcomeText != nil {
		settings.WelcomeText = input.WelcomeText
	}
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *adminService) ListPrizes(ctx context.Context) ([]models.Prize, error) {
	return s.prizeRepo.List(ctx)
}

func (s *adminService) CreatePrize(ctx context.Context, input PrizeInput) (*models.Prize, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	prize := &models.Prize{
		Name:        input.Name,
		PointsCost:  input.Points,
		Quantity:    input.Quantity,
		Description: input.Description,
	}
	if err := s.prizeRepo.Create(ctx, prize); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Prize created", slog.Int("prize_id", prize.ID), slog.String("name", prize.Name))
	s.notifyStock(prize)
	return prize, nil
}

func (s *adminService) UpdatePrize(ctx context.Context, id int, input PrizeUpdateInput) (*models.Prize, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	prize, err := s.prizeRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPrizeNotFound) {
			return nil, fmt.Errorf("%w: prize not found", ErrNotFound)
		}
		return nil, err
	}

	if input.Name != nil {
		prize.Name = strings.TrimSpace(*input.Name)
	}
	if input.Points != nil {
		prize.PointsCost = *input.Points
	}
	if input.Quantity != nil {
		prize.Quantity = *input.Quantity
	}
	if input.Description != nil {
		prize.Description = input.Description
	}

	if err := s.prizeRepo.Update(ctx, prize); err != nil {
		if errors.Is(err, repositories.ErrPrizeNotFound) {
			return nil, fmt.Errorf("%w: prize not found", ErrNotFound)
		}
		return nil, err
	}
	s.notifyStock(prize)
	return prize, nil
}

func (s *adminService) DeletePrize(ctx context.Context, id int) error {
	if err := s.prizeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPrizeNotFound) {
			return fmt.Errorf("%w: prize not found", ErrNotFound)
		}
		return err
	}
	s.logger.InfoContext(ctx, "Prize deleted", slog.Int("prize_id", id))
	return nil
}

func (s *adminService) notifyStock(p *models.Prize) {
	if s.notifier != nil {
		s.notifier.PrizeStockChanged(p.ID, p.Quantity)
	}
}

func (s *adminService) ListQuestions(ctx context.Context) ([]models.TestQuestion, error) {
	return s.questionRepo.List(ctx)
}

func (s *adminService) CreateQuestion(ctx context.Context, input QuestionInput) (*models.TestQuestion, error) {
	input.Question = strings.TrimSpace(input.Question)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	q := &models.TestQuestion{
		Question: input.Question,
		Options:  models.QuestionOptions(input.Options),
		Order:    input.Order,
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *adminService) UpdateQuestion(ctx context.Context, id int, input QuestionUpdateInput) (*models.TestQuestion, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrQuestionNotFound) {
			return nil, fmt.Errorf("%w: question not found", ErrNotFound)
		}
		return nil, err
	}

	if input.Question != nil {
		q.Question = strings.TrimSpace(*input.Question)
	}
	if input.Options != nil {
		q.Options = models.QuestionOptions(input.Options)
	}
	if input.Order != nil {
		q.Order = *input.Order
	}

	if err := s.questionRepo.Update(ctx, q); err != nil {
		if errors.Is(err, repositories.ErrQuestionNotFound) {
			return nil, fmt.Errorf("%w: question not found", ErrNotFound)
		}
		return nil, err
	}
	return q, nil
}

func (s *adminService) DeleteQuestion(ctx context.Context, id int) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrQuestionNotFound) {
			return fmt.Errorf("%w: question not found", ErrNotFound)
		}
		return err
	}
	return nil
}
