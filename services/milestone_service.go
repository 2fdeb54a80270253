package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/career-day/metrics"
	"github.com/Dosada05/career-day/models"
	"github.com/Dosada05/career-day/repositories"
	"github.com/Dosada05/career-day/storage"
)

// Начисления за этапы.
const (
	TestCompletePoints = 15
	GameBasePoints     = 25
	GameMaxBonus       = 25
	ApplicationPoints  = 35
)

const milestoneApplication = "application"

var allowedGameTypes = map[string]bool{
	"bug_catcher": true,
	"color_match": true,
}

// GamePoints returns the total award and the bonus part for a game score.
func GamePoints(score int) (total, bonus int, err error) {
	if score < 0 {
		return 0, 0, fmt.Errorf("%w: score must not be negative", ErrInvalidChoice)
	}
	bonus = score / 2
	if bonus > GameMaxBonus {
		bonus = GameMaxBonus
	}
	return GameBasePoints + bonus, bonus, nil
}

// ResumeStore - куда складываются резюме. Реализуется storage.UploadStore.
type ResumeStore interface {
	Store(ctx context.Context, ownerID int, filename string, r io.Reader) (string, error)
	Discard(ctx context.Context, key string) error
}

type TestResult struct {
	Result       models.TestOutcome `json:"result"`
	PointsEarned int                `json:"points_earned"`
	TotalPoints  int                `json:"total_points"`
}

type GameInput struct {
	Score    int    `json:"score"`
	GameType string `json:"game_type"`
}

type GameResult struct {
	PointsEarned int    `json:"points_earned"`
	TotalPoints  int    `json:"total_points"`
	Bonus        int    `json:"bonus"`
	Message      string `json:"message"`
}

type ResumeFile struct {
	Filename string
	Body     io.Reader
}

type ApplicationInput struct {
	FullName   string  `json:"full_name" validate:"required,max=255"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Phone      string  `json:"phone" validate:"required,max=50"`
	Direction  string  `json:"direction"`
	Motivation *string `json:"motivation"`
	Resume     *ResumeFile
}

type ApplicationResult struct {
	Application  *models.Application `json:"application"`
	PointsEarned int                 `json:"points_earned"`
	TotalPoints  int                 `json:"total_points"`
}

type MilestoneService interface {
	GetProgress(ctx context.Context, userID int) (*models.Progress, error)
	ListQuestions(ctx context.Context) ([]models.TestQuestion, error)
	CompleteTest(ctx context.Context, userID int, result string) (*TestResult, error)
	SkipTest(ctx context.Context, userID int) error
	SetDirection(ctx context.Context, userID int, result string) (models.TestOutcome, error)
	CompleteGame(ctx context.Context, userID int, input GameInput) (*GameResult, error)
	SubmitApplication(ctx context.Context, userID int, input ApplicationInput) (*ApplicationResult, error)
	GetApplication(ctx context.Context, userID int) (*models.Application, error)
}

type milestoneService struct {
	db           *sql.DB
	ledger       *Ledger
	appRepo      repositories.ApplicationRepository
	questionRepo repositories.QuestionRepository
	resumes      ResumeStore
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func NewMilestoneService(
	db *sql.DB,
	ledger *Ledger,
	appRepo repositories.ApplicationRepository,
	questionRepo repositories.QuestionRepository,
	resumes ResumeStore,
	m *metrics.Metrics,
	logger *slog.Logger,
) MilestoneService {
	return &milestoneService{
		db:           db,
		ledger:       ledger,
		appRepo:      appRepo,
		questionRepo: questionRepo,
		resumes:      resumes,
		metrics:      m,
		logger:       logger,
	}
}

// GetProgress создаёт пустой прогресс при первом обращении.
func (s *milestoneService) GetProgress(ctx context.Context, userID int) (*models.Progress, error) {
	return s.ledger.GetOrCreate(ctx, nil, userID)
}

func (s *milestoneService) ListQuestions(ctx context.Context) ([]models.TestQuestion, error) {
	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list test questions: %w", err)
	}
	return questions, nil
}

func (s *milestoneService) CompleteTest(ctx context.Context, userID int, result string) (*TestResult, error) {
	outcome, err := parseOutcome(result)
	if err != nil {
		return nil, err
	}

	progress, err := s.award(ctx, userID, Award{
		Milestone: models.MilestoneTest,
		Delta:     TestCompletePoints,
		Outcome:   &outcome,
	})
	if err != nil {
		return nil, err
	}

	return &TestResult{
		Result:       outcome,
		PointsEarned: TestCompletePoints,
		TotalPoints:  progress.Points,
	}, nil
}

// SkipTest закрывает этап теста без очков и без направления.
func (s *milestoneService) SkipTest(ctx context.Context, userID int) error {
	_, err := s.award(ctx, userID, Award{Milestone: models.MilestoneTest})
	return err
}

// SetDirection sets the outcome without touching points or the test flag.
// It is allowed both after a skip and after a completed test.
func (s *milestoneService) SetDirection(ctx context.Context, userID int, result string) (models.TestOutcome, error) {
	outcome, err := parseOutcome(result)
	if err != nil {
		return "", err
	}
	if _, err := s.ledger.SetOutcome(ctx, nil, userID, outcome); err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "Direction set", slog.Int("user_id", userID), slog.String("direction", string(outcome)))
	return outcome, nil
}

func (s *milestoneService) CompleteGame(ctx context.Context, userID int, input GameInput) (*GameResult, error) {
	gameType := strings.TrimSpace(input.GameType)
	if !allowedGameTypes[gameType] {
		return nil, fmt.Errorf("%w: game type must be 'bug_catcher' or 'color_match'", ErrInvalidChoice)
	}
	earned, bonus, err := GamePoints(input.Score)
	if err != nil {
		return nil, err
	}

	progress, err := s.award(ctx, userID, Award{Milestone: models.MilestoneGame, Delta: earned})
	if err != nil {
		return nil, err
	}

	return &GameResult{
		PointsEarned: earned,
		TotalPoints:  progress.Points,
		Bonus:        bonus,
		Message:      fmt.Sprintf("Game completed! You earned %d points (%d base + %d bonus)", earned, GameBasePoints, bonus),
	}, nil
}

func (s *milestoneService) award(ctx context.Context, userID int, a Award) (*models.Progress, error) {
	var progress *models.Progress
	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		var err error
		progress, err = s.ledger.Award(ctx, tx, userID, a)
		return err
	})
	err = transientIfConflict(err, string(a.Milestone)+" award")
	if err != nil {
		if errors.Is(err, ErrAlreadyCompleted) {
			s.metrics.MilestoneRejected(string(a.Milestone))
		}
		return nil, err
	}

	s.metrics.MilestoneCompleted(string(a.Milestone), a.Delta)
	s.logger.InfoContext(ctx, "Milestone completed",
		slog.Int("user_id", userID),
		slog.String("milestone", string(a.Milestone)),
		slog.Int("points_earned", a.Delta),
		slog.Int("total_points", progress.Points),
	)
	return progress, nil
}

// SubmitApplication stores the résumé first and then writes the application and
// the points in one transaction. A failed transaction removes the stored file.
func (s *milestoneService) SubmitApplication(ctx context.Context, userID int, input ApplicationInput) (*ApplicationResult, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	direction, err := parseOutcome(input.Direction)
	if err != nil {
		return nil, err
	}

	exists, err := s.appRepo.ExistsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: application already submitted", ErrAlreadyExists)
	}

	var resumeKey *string
	if input.Resume != nil {
		key, err := s.resumes.Store(ctx, userID, input.Resume.Filename, input.Resume.Body)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidFile) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
			}
			return nil, fmt.Errorf("failed to store resume: %w", err)
		}
		resumeKey = &key
	}

	app := &models.Application{
		UserID:     userID,
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		Direction:  direction,
		Motivation: input.Motivation,
		ResumePath: resumeKey,
	}

	var progress *models.Progress
	err = runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if err := s.appRepo.Create(ctx, tx, app); err != nil {
			if errors.Is(err, repositories.ErrApplicationConflict) {
				return fmt.Errorf("%w: application already submitted", ErrAlreadyExists)
			}
			if errors.Is(err, repositories.ErrUserNotFound) {
				return fmt.Errorf("%w: user %d", ErrNotFound, userID)
			}
			return err
		}
		var err error
		progress, err = s.ledger.Credit(ctx, tx, userID, ApplicationPoints)
		return err
	})
	err = transientIfConflict(err, "application")
	if err != nil {
		if resumeKey != nil {
			s.discardResume(ctx, *resumeKey)
		}
		return nil, err
	}

	s.metrics.MilestoneCompleted(milestoneApplication, ApplicationPoints)
	s.logger.InfoContext(ctx, "Application submitted",
		slog.Int("user_id", userID),
		slog.String("direction", string(direction)),
		slog.Bool("with_resume", resumeKey != nil),
		slog.Int("total_points", progress.Points),
	)

	return &ApplicationResult{
		Application:  app,
		PointsEarned: ApplicationPoints,
		TotalPoints:  progress.Points,
	}, nil
}

func (s *milestoneService) discardResume(ctx context.Context, key string) {
	if err := s.resumes.Discard(context.WithoutCancel(ctx), key); err != nil {
		s.logger.WarnContext(ctx, "Failed to remove orphaned resume", slog.String("key", key), slog.Any("error", err))
	}
}

// GetApplication returns nil, nil when the user has not applied yet.
func (s *milestoneService) GetApplication(ctx context.Context, userID int) (*models.Application, error) {
	app, err := s.appRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}
