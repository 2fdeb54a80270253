package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/career-day/models"
)

var (
	ErrProgressNotFound    = errors.New("progress not found")
	ErrMilestoneAlreadySet = errors.New("milestone already completed")
	ErrInsufficientPoints  = errors.New("insufficient points")
	ErrUnknownMilestone    = errors.New("unknown milestone")
)

type ProgressRepository interface {
	EnsureExists(ctx context.Context, exec SQLExecutor, userID int) error
	GetByUserID(ctx context.Context, exec SQLExecutor, userID int) (*models.Progress, error)
	GetByUserIDForUpdate(ctx context.Context, exec SQLExecutor, userID int) (*models.Progress, error)
	ApplyMilestone(ctx context.Context, exec SQLExecutor, userID int, m models.Milestone, delta int, outcome *models.TestOutcome) (*models.Progress, error)
	AddPoints(ctx context.Context, exec SQLExecutor, userID int, delta int) (*models.Progress, error)
	Debit(ctx context.Context, exec SQLExecutor, userID int, amount int) (int, error)
	SetOutcome(ctx context.Context, exec SQLExecutor, userID int, outcome models.TestOutcome) (*models.Progress, error)
	CountMilestone(ctx context.Context, m models.Milestone) (int, error)
}

type postgresProgressRepository struct {
	db *sql.DB
}

func NewPostgresProgressRepository(db *sql.DB) ProgressRepository {
	return &postgresProgressRepository{db: db}
}

const progressColumns = `id, user_id, points, test_done, test_outcome, game_done`

// Имена колонок подставляются в SQL, поэтому только из этого списка.
var milestoneColumns = map[models.Milestone]string{
	models.MilestoneTest: "test_done",
	models.MilestoneGame: "game_done",
}

func milestoneColumn(m models.Milestone) (string, error) {
	col, ok := milestoneColumns[m]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMilestone, m)
	}
	return col, nil
}

func scanProgress(row rowScanner) (*models.Progress, error) {
	p := &models.Progress{}
	var outcome sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &p.Points, &p.TestDone, &outcome, &p.GameDone)
	if err != nil {
		return nil, err
	}
	if outcome.Valid {
		o := models.TestOutcome(outcome.String)
		p.TestOutcome = &o
	}
	return p, nil
}

// EnsureExists создаёт пустую запись прогресса, если её ещё нет. Повторный вызов ничего не меняет.
func (r *postgresProgressRepository) EnsureExists(ctx context.Context, exec SQLExecutor, userID int) error {
	query := `
		INSERT INTO user_progress (user_id, points, test_done, game_done)
		VALUES ($1, 0, FALSE, FALSE)
		ON CONFLICT (user_id) DO NOTHING`

	_, err := pick(r.db, exec).ExecContext(ctx, query, userID)
	if err != nil {
		if isConstraintViolation(err, pqForeignKeyViolation, "") {
			return ErrUserNotFound
		}
		return wrapConflict(err, "failed to ensure progress")
	}
	return nil
}

func (r *postgresProgressRepository) GetByUserID(ctx context.Context, exec SQLExecutor, userID int) (*models.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE user_id = $1`
	return r.get(ctx, exec, query, userID)
}

// GetByUserIDForUpdate блокирует строку до конца транзакции; exec должен быть *sql.Tx.
func (r *postgresProgressRepository) GetByUserIDForUpdate(ctx context.Context, exec SQLExecutor, userID int) (*models.Progress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE user_id = $1 FOR UPDATE`
	return r.get(ctx, exec, query, userID)
}

func (r *postgresProgressRepository) get(ctx context.Context, exec SQLExecutor, query string, userID int) (*models.Progress, error) {
	p, err := scanProgress(pick(r.db, exec).QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, wrapConflict(err, "failed to get progress")
	}
	return p, nil
}

// ApplyMilestone sets the milestone flag and adds delta in one statement.
// The WHERE guard on the flag makes the award happen at most once per user,
// even when several requests race: the loser updates zero rows.
func (r *postgresProgressRepository) ApplyMilestone(ctx context.Context, exec SQLExecutor, userID int, m models.Milestone, delta int, outcome *models.TestOutcome) (*models.Progress, error) {
	col, err := milestoneColumn(m)
	if err != nil {
		return nil, err
	}

	args := []interface{}{delta, userID}
	set := `points = points + $1, ` + col + ` = TRUE`
	if outcome != nil {
		set += `, test_outcome = $3`
		args = append(args, string(*outcome))
	}

	query := `
		UPDATE user_progress SET ` + set + `
		WHERE user_id = $2 AND ` + col + ` = FALSE
		RETURNING ` + progressColumns

	p, err := scanProgress(pick(r.db, exec).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMilestoneAlreadySet
		}
		return nil, wrapConflict(err, "failed to apply milestone")
	}
	return p, nil
}

func (r *postgresProgressRepository) AddPoints(ctx context.Context, exec SQLExecutor, userID int, delta int) (*models.Progress, error) {
	query := `
		UPDATE user_progress SET points = points + $1
		WHERE user_id = $2
		RETURNING ` + progressColumns

	p, err := scanProgress(pick(r.db, exec).QueryRowContext(ctx, query, delta, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, wrapConflict(err, "failed to add points")
	}
	return p, nil
}

// Debit списывает amount, только если баланса хватает. Возвращает новый баланс.
func (r *postgresProgressRepository) Debit(ctx context.Context, exec SQLExecutor, userID int, amount int) (int, error) {
	query := `
		UPDATE user_progress SET points = points - $1
		WHERE user_id = $2 AND points >= $1
		RETURNING points`

	var remaining int
	err := pick(r.db, exec).QueryRowContext(ctx, query, amount, userID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInsufficientPoints
		}
		if isConstraintViolation(err, pqCheckViolation, "") {
			return 0, ErrInsufficientPoints
		}
		return 0, wrapConflict(err, "failed to debit points")
	}
	return remaining, nil
}

// SetOutcome меняет только направление; флаг теста и очки не трогает.
func (r *postgresProgressRepository) SetOutcome(ctx context.Context, exec SQLExecutor, userID int, outcome models.TestOutcome) (*models.Progress, error) {
	query := `
		UPDATE user_progress SET test_outcome = $1
		WHERE user_id = $2
		RETURNING ` + progressColumns

	p, err := scanProgress(pick(r.db, exec).QueryRowContext(ctx, query, string(outcome), userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, wrapConflict(err, "failed to set test outcome")
	}
	return p, nil
}

func (r *postgresProgressRepository) CountMilestone(ctx context.Context, m models.Milestone) (int, error) {
	col, err := milestoneColumn(m)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_progress WHERE `+col+` = TRUE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s milestones: %w", m, err)
	}
	return n, nil
}
