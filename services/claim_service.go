package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/career-day/metrics"
	"github.com/Dosada05/career-day/models"
	"github.com/Dosada05/career-day/repositories"
)

const (
	claimMaxAttempts = 3
	claimLockTimeout = 2 * time.Second
	claimBackoff     = 20 * time.Millisecond
)

// StockNotifier получает новый остаток приза после успешной выдачи.
type StockNotifier interface {
	PrizeStockChanged(prizeID, quantity int)
}

type ClaimService interface {
	ListPrizes(ctx context.Context) ([]models.Prize, error)
	ClaimPrize(ctx context.Context, userID, prizeID int) (*models.ClaimReceipt, error)
	ListClaimed(ctx context.Context, userID int) ([]models.Claim, error)
}

type claimService struct {
	db           *sql.DB
	prizeRepo    repositories.PrizeRepository
	progressRepo repositories.ProgressRepository
	claimRepo    repositories.ClaimRepository
	notifier     StockNotifier
	metrics      *metrics.Metrics
	logger       *slog.Logger

	lockTimeout time.Duration
	backoff     time.Duration
}

func NewClaimService(
	db *sql.DB,
	prizeRepo repositories.PrizeRepository,
	progressRepo repositories.ProgressRepository,
	claimRepo repositories.ClaimRepository,
	notifier StockNotifier,
	m *metrics.Metrics,
	logger *slog.Logger,
) ClaimService {
	return &claimService{
		db:           db,
		prizeRepo:    prizeRepo,
		progressRepo: progressRepo,
		claimRepo:    claimRepo,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
		lockTimeout:  claimLockTimeout,
		backoff:      claimBackoff,
	}
}

func (s *claimService) ListPrizes(ctx context.Context) ([]models.Prize, error) {
	prizes, err := s.prizeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prizes: %w", err)
	}
	return prizes, nil
}

func (s *claimService) ListClaimed(ctx context.Context, userID int) ([]models.Claim, error) {
	claims, err := s.claimRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claimed prizes for user %d: %w", userID, err)
	}
	return claims, nil
}

// ClaimPrize exchanges points for one unit of stock. Lock conflicts are retried
// up to claimMaxAttempts times in total and then reported as ErrTransient;
// business rejections are never retried.
func (s *claimService) ClaimPrize(ctx context.Context, userID, prizeID int) (*models.ClaimReceipt, error) {
	var (
		receipt *models.ClaimReceipt
		err     error
	)
	for attempt := 1; attempt <= claimMaxAttempts; attempt++ {
		receipt, err = s.claimOnce(ctx, userID, prizeID)
		if err == nil || !repositories.IsRetryable(err) || attempt == claimMaxAttempts {
			break
		}

		s.metrics.ClaimRetried()
		s.logger.WarnContext(ctx, "Claim transaction conflicted, retrying",
			slog.Int("user_id", userID),
			slog.Int("prize_id", prizeID),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		if waitErr := sleepCtx(ctx, s.backoff*time.Duration(attempt)); waitErr != nil {
			err = waitErr
			break
		}
	}

	if err != nil {
		if repositories.IsRetryable(err) {
			s.logger.ErrorContext(ctx, "Claim gave up after retries", slog.Int("user_id", userID), slog.Int("prize_id", prizeID), slog.Any("error", err))
			err = fmt.Errorf("%w: prize claim conflicted with concurrent requests", ErrTransient)
		}
		s.metrics.ClaimFinished(string(ErrorKind(err)))
		return nil, err
	}

	s.metrics.ClaimFinished("success")
	s.logger.InfoContext(ctx, "Prize claimed",
		slog.Int("user_id", userID),
		slog.Int("prize_id", prizeID),
		slog.Int("remaining_points", receipt.RemainingPoints),
		slog.Int("remaining_stock", receipt.RemainingStock),
	)
	if s.notifier != nil {
		s.notifier.PrizeStockChanged(receipt.PrizeID, receipt.RemainingStock)
	}
	return receipt, nil
}

// claimOnce - одна попытка. Порядок блокировок всегда: приз, затем прогресс.
func (s *claimService) claimOnce(ctx context.Context, userID, prizeID int) (*models.ClaimReceipt, error) {
	var receipt *models.ClaimReceipt

	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("failed to set lock timeout: %w", err)
		}

		prize, err := s.prizeRepo.GetByIDForUpdate(ctx, tx, prizeID)
		if err != nil {
			if errors.Is(err, repositories.ErrPrizeNotFound) {
				return fmt.Errorf("%w: prize not found", ErrNotFound)
			}
			return err
		}
		if prize.Quantity <= 0 {
			return fmt.Errorf("%w: '%s'", ErrOutOfStock, prize.Name)
		}

		progress, err := s.progressRepo.GetByUserIDForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrProgressNotFound) {
				return fmt.Errorf("%w: user has no points", ErrInsufficientFunds)
			}
			return err
		}
		if progress.Points < prize.PointsCost {
			return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, prize.PointsCost, progress.Points)
		}

		claimed, err := s.claimRepo.Exists(ctx, tx, userID, prizeID)
		if err != nil {
			return err
		}
		if claimed {
			return fmt.Errorf("%w: '%s'", ErrAlreadyClaimed, prize.Name)
		}

		claim := &models.Claim{UserID: userID, PrizeID: prizeID}
		if err := s.claimRepo.Create(ctx, tx, claim); err != nil {
			if errors.Is(err, repositories.ErrClaimConflict) {
				return fmt.Errorf("%w: '%s'", ErrAlreadyClaimed, prize.Name)
			}
			return err
		}

		remainingStock, err := s.prizeRepo.DecrementStock(ctx, tx, prizeID)
		if err != nil {
			if errors.Is(err, repositories.ErrPrizeOutOfStock) {
				return fmt.Errorf("%w: '%s'", ErrOutOfStock, prize.Name)
			}
			return err
		}

		remainingPoints, err := s.progressRepo.Debit(ctx, tx, userID, prize.PointsCost)
		if err != nil {
			if errors.Is(err, repositories.ErrInsufficientPoints) {
				return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, prize.PointsCost, progress.Points)
			}
			return err
		}

		receipt = &models.ClaimReceipt{
			PrizeID:         prize.ID,
			PrizeName:       prize.Name,
			RemainingPoints: remainingPoints,
			RemainingStock:  remainingStock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
