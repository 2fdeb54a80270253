package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/career-day/models"
)

var (
	ErrPrizeNotFound   = errors.New("prize not found")
	ErrPrizeOutOfStock = errors.New("prize out of stock")
)

type PrizeRepository interface {
	Create(ctx context.Context, prize *models.Prize) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Prize, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Prize, error)
	List(ctx context.Context) ([]models.Prize, error)
	Update(ctx context.Context, prize *models.Prize) error
	Delete(ctx context.Context, id int) error
	DecrementStock(ctx context.Context, exec SQLExecutor, id int) (int, error)
}

type postgresPrizeRepository struct {
	db *sql.DB
}

func NewPostgresPrizeRepository(db *sql.DB) PrizeRepository {
	return &postgresPrizeRepository{db: db}
}

const prizeColumns = `id, name, points_cost, quantity, description`

func scanPrize(row rowScanner) (*models.Prize, error) {
	p := &models.Prize{}
	var description sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.PointsCost, &p.Quantity, &description); err != nil {
		return nil, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	return p, nil
}

func (r *postgresPrizeRepository) Create(ctx context.Context, prize *models.Prize) error {
	query := `
		INSERT INTO prizes (name, points_cost, quantity, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		prize.Name,
		prize.PointsCost,
		prize.Quantity,
		prize.Description,
	).Scan(&prize.ID)
	if err != nil {
		return fmt.Errorf("failed to create prize: %w", err)
	}
	return nil
}

func (r *postgresPrizeRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Prize, error) {
	query := `SELECT ` + prizeColumns + ` FROM prizes WHERE id = $1`
	return r.get(ctx, exec, query, id)
}

// GetByIDForUpdate захватывает строку приза первой, до строки прогресса.
func (r *postgresPrizeRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Prize, error) {
	query := `SELECT ` + prizeColumns + ` FROM prizes WHERE id = $1 FOR UPDATE`
	return r.get(ctx, exec, query, id)
}

func (r *postgresPrizeRepository) get(ctx context.Context, exec SQLExecutor, query string, id int) (*models.Prize, error) {
	p, err := scanPrize(pick(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPrizeNotFound
		}
		return nil, wrapConflict(err, "failed to get prize")
	}
	return p, nil
}

// List returns the catalog, cheapest first, including sold-out items.
func (r *postgresPrizeRepository) List(ctx context.Context) ([]models.Prize, error) {
	query := `SELECT ` + prizeColumns + ` FROM prizes ORDER BY points_cost ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list prizes: %w", err)
	}
	defer rows.Close()

	prizes := make([]models.Prize, 0)
	for rows.Next() {
		p, err := scanPrize(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prize row: %w", err)
		}
		prizes = append(prizes, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prize rows: %w", err)
	}
	return prizes, nil
}

func (r *postgresPrizeRepository) Update(ctx context.Context, prize *models.Prize) error {
	query := `
		UPDATE prizes
		SET name = $1, points_cost = $2, quantity = $3, description = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		prize.Name,
		prize.PointsCost,
		prize.Quantity,
		prize.Description,
		prize.ID,
	)
	if err != nil {
		return wrapConflict(err, "failed to update prize")
	}
	return checkAffectedRows(result, ErrPrizeNotFound)
}

// Delete удаляет приз вместе с историей выдачи (ON DELETE CASCADE).
func (r *postgresPrizeRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM prizes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prize: %w", err)
	}
	return checkAffectedRows(result, ErrPrizeNotFound)
}

// DecrementStock takes one unit if any is left and returns the remaining quantity.
func (r *postgresPrizeRepository) DecrementStock(ctx context.Context, exec SQLExecutor, id int) (int, error) {
	query := `
		UPDATE prizes SET quantity = quantity - 1
		WHERE id = $1 AND quantity > 0
		RETURNING quantity`

	var remaining int
	err := pick(r.db, exec).QueryRowContext(ctx, query, id).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPrizeOutOfStock
		}
		return 0, wrapConflict(err, "failed to decrement prize stock")
	}
	return remaining, nil
}
