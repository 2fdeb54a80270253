package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/career-day/models"
	"github.com/Dosada05/career-day/repositories"
	"github.com/Dosada05/career-day/utils"
)

func opt(text string, o models.TestOutcome) models.QuestionOption {
	return models.QuestionOption{Text: text, Category: o}
}

// DefaultQuestions - стартовый набор вопросов теста.
var DefaultQuestions = []models.TestQuestion{
	{Question: "Что вас больше привлекает в работе?", Order: 1, Options: models.QuestionOptions{
		opt("Решение сложных логических задач", models.OutcomeDeveloper),
		opt("Создание красивых и удобных интерфейсов", models.OutcomeDesigner),
	}},
	{Question: "Какой инструмент вы бы выбрали для изучения?", Order: 2, Options: models.QuestionOptions{
		opt("VS Code или другую IDE", models.OutcomeDeveloper),
		opt("Figma или Sketch", models.OutcomeDesigner),
	}},
	{Question: "Что для вас важнее в проекте?", Order: 3, Options: models.QuestionOptions{
		opt("Чистый и оптимизированный код", models.OutcomeDeveloper),
		opt("Гармоничная цветовая палитра", models.OutcomeDesigner),
	}},
	{Question: "Как вы предпочитаете учиться?", Order: 4, Options: models.QuestionOptions{
		opt("Читать документацию и разбирать примеры кода", models.OutcomeDeveloper),
		opt("Изучать дизайн-системы и тренды", models.OutcomeDesigner),
	}},
	{Question: "Какая задача кажется вам интереснее?", Order: 5, Options: models.QuestionOptions{
		opt("Оптимизировать алгоритм для ускорения работы приложения", models.OutcomeDeveloper),
		opt("Провести UX-исследование для улучшения пользовательского опыта", models.OutcomeDesigner),
	}},
	{Question: "Что вас больше вдохновляет?", Order: 6, Options: models.QuestionOptions{
		opt("Автоматизация рутинных процессов", models.OutcomeDeveloper),
		opt("Создание уникального визуального стиля", models.OutcomeDesigner),
	}},
}

// Seeder наполняет пустую базу: администратор, вопросы теста, настройки.
// Призы не создаются, их заводит администратор.
type Seeder struct {
	userRepo     repositories.UserRepository
	questionRepo repositories.QuestionRepository
	settingsRepo repositories.SettingsRepository
	logger       *slog.Logger
}

func NewSeeder(
	userRepo repositories.UserRepository,
	questionRepo repositories.QuestionRepository,
	settingsRepo repositories.SettingsRepository,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Run is idempotent: each step is skipped when its data already exists.
func (s *Seeder) Run(ctx context.Context, adminEmail, adminPassword string) error {
	if err := s.seedAdmin(ctx, adminEmail, adminPassword); err != nil {
		return err
	}
	if err := s.seedQuestions(ctx); err != nil {
		return err
	}
	return s.seedSettings(ctx)
}

func (s *Seeder) seedAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		s.logger.InfoContext(ctx, "Admin user already exists", slog.String("email", email))
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &models.User{Email: email, PasswordHash: hash, IsAdmin: true, IsActive: true}
	if err := s.userRepo.Create(ctx, nil, admin); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	s.logger.InfoContext(ctx, "Admin user created", slog.String("email", email))
	return nil
}

func (s *Seeder) seedQuestions(ctx context.Context) error {
	n, err := s.questionRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "Test questions already exist", slog.Int("count", n))
		return nil
	}
	for i := range DefaultQuestions {
		q := DefaultQuestions[i]
		if err := s.questionRepo.Create(ctx, &q); err != nil {
			return err
		}
	}
	s.logger.InfoContext(ctx, "Test questions created", slog.Int("count", len(DefaultQuestions)))
	return nil
}

func (s *Seeder) seedSettings(ctx context.Context) error {
	_, err := s.settingsRepo.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrSettingsNotFound) {
		return err
	}
	welcome := models.DefaultWelcomeText
	if err := s.settingsRepo.Create(ctx, &models.EventSettings{EventName: models.DefaultEventName, WelcomeText: &welcome}); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Event settings created")
	return nil
}
