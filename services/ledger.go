package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/career-day/models"
	"github.com/Dosada05/career-day/repositories"
)

// Award описывает одно начисление за этап.
type Award struct {
	Milestone models.Milestone
	Delta     int
	Outcome   *models.TestOutcome
}

// Ledger is the only writer of points earned through milestones. Every method takes
// the executor of the caller's transaction, so an award commits together with the
// rest of the operation or not at all.
type Ledger struct {
	progressRepo repositories.ProgressRepository
}

func NewLedger(progressRepo repositories.ProgressRepository) *Ledger {
	return &Ledger{progressRepo: progressRepo}
}

// GetOrCreate returns the participant's progress, creating a zero row on first use.
// Concurrent creators both succeed: the insert is ON CONFLICT DO NOTHING and we re-read.
func (l *Ledger) GetOrCreate(ctx context.Context, exec repositories.SQLExecutor, userID int) (*models.Progress, error) {
	if err := l.progressRepo.EnsureExists(ctx, exec, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	p, err := l.progressRepo.GetByUserID(ctx, exec, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read progress after create: %w", err)
	}
	return p, nil
}

// Award adds a.Delta and sets the milestone guard in one conditional update.
// If the guard is already set nothing changes and ErrAlreadyCompleted is returned.
func (l *Ledger) Award(ctx context.Context, exec repositories.SQLExecutor, userID int, a Award) (*models.Progress, error) {
	if a.Delta < 0 {
		return nil, fmt.Errorf("%w: negative award %d", ErrValidationFailed, a.Delta)
	}
	if err := l.progressRepo.EnsureExists(ctx, exec, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	p, err := l.progressRepo.ApplyMilestone(ctx, exec, userID, a.Milestone, a.Delta, a.Outcome)
	if err != nil {
		if errors.Is(err, repositories.ErrMilestoneAlreadySet) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyCompleted, milestoneLabel(a.Milestone))
		}
		return nil, err
	}
	return p, nil
}

// Credit начисляет очки без флага; повторы отсекает вызывающий (заявка уникальна).
func (l *Ledger) Credit(ctx context.Context, exec repositories.SQLExecutor, userID int, delta int) (*models.Progress, error) {
	if delta < 0 {
		return nil, fmt.Errorf("%w: negative credit %d", ErrValidationFailed, delta)
	}
	if _, err := l.GetOrCreate(ctx, exec, userID); err != nil {
		return nil, err
	}
	return l.progressRepo.AddPoints(ctx, exec, userID, delta)
}

// SetOutcome меняет направление без начисления. Строка прогресса должна существовать.
func (l *Ledger) SetOutcome(ctx context.Context, exec repositories.SQLExecutor, userID int, outcome models.TestOutcome) (*models.Progress, error) {
	p, err := l.progressRepo.SetOutcome(ctx, exec, userID, outcome)
	if err != nil {
		if errors.Is(err, repositories.ErrProgressNotFound) {
			return nil, fmt.Errorf("%w: user progress not found", ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func milestoneLabel(m models.Milestone) string {
	switch m {
	case models.MilestoneTest:
		return "test already completed"
	case models.MilestoneGame:
		return "game already completed"
	}
	return string(m) + " already completed"
}
