package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/career-day/models"
)

var ErrClaimConflict = errors.New("prize already claimed by user")

type ClaimRepository interface {
	Create(ctx context.Context, exec SQLExecutor, claim *models.Claim) error
	Exists(ctx context.Context, exec SQLExecutor, userID, prizeID int) (bool, error)
	ListByUser(ctx context.Context, userID int) ([]models.Claim, error)
}

type postgresClaimRepository struct {
	db *sql.DB
}

func NewPostgresClaimRepository(db *sql.DB) ClaimRepository {
	return &postgresClaimRepository{db: db}
}

func (r *postgresClaimRepository) Create(ctx context.Context, exec SQLExecutor, claim *models.Claim) error {
	query := `
		INSERT INTO claimed_prizes (user_id, prize_id)
		VALUES ($1, $2)
		RETURNING id, claimed_at`

	err := pick(r.db, exec).QueryRowContext(ctx, query, claim.UserID, claim.PrizeID).Scan(&claim.ID, &claim.ClaimedAt)
	if err != nil {
		if isConstraintViolation(err, pqUniqueViolation, "claimed_prizes_user_id_prize_id_key") {
			return ErrClaimConflict
		}
		if isConstraintViolation(err, pqForeignKeyViolation, "") {
			return ErrPrizeNotFound
		}
		return wrapConflict(err, "failed to create claim")
	}
	return nil
}

func (r *postgresClaimRepository) Exists(ctx context.Context, exec SQLExecutor, userID, prizeID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM claimed_prizes WHERE user_id = $1 AND prize_id = $2)`

	var exists bool
	if err := pick(r.db, exec).QueryRowContext(ctx, query, userID, prizeID).Scan(&exists); err != nil {
		return false, wrapConflict(err, "failed to check claim")
	}
	return exists, nil
}

// ListByUser возвращает выданные призы пользователя, последние сверху.
func (r *postgresClaimRepository) ListByUser(ctx context.Context, userID int) ([]models.Claim, error) {
	query := `
		SELECT c.id, c.user_id, c.prize_id, c.claimed_at,
		       p.id, p.name, p.points_cost, p.quantity, p.description
		FROM claimed_prizes c
		JOIN prizes p ON p.id = c.prize_id
		WHERE c.user_id = $1
		ORDER BY c.claimed_at DESC, c.id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	claims := make([]models.Claim, 0)
	for rows.Next() {
		var c models.Claim
		var p models.Prize
		var description sql.NullString
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.PrizeID, &c.ClaimedAt,
			&p.ID, &p.Name, &p.PointsCost, &p.Quantity, &description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan claim row: %w", err)
		}
		if description.Valid {
			p.Description = &description.String
		}
		c.Prize = &p
		claims = append(claims, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating claim rows: %w", err)
	}
	return claims, nil
}
