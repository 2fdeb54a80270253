package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/career-day/models"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationConflict = errors.New("application already submitted")
)

type ApplicationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, app *models.Application) error
	GetByUserID(ctx context.Context, userID int) (*models.Application, error)
	ExistsForUser(ctx context.Context, userID int) (bool, error)
	ListWithUsers(ctx context.Context) ([]models.Application, error)
	Count(ctx context.Context) (int, error)
}

type postgresApplicationRepository struct {
	db *sql.DB
}

func NewPostgresApplicationRepository(db *sql.DB) ApplicationRepository {
	return &postgresApplicationRepository{db: db}
}

func (r *postgresApplicationRepository) Create(ctx context.Context, exec SQLExecutor, app *models.Application) error {
	query := `
		INSERT INTO applications (user_id, full_name, email, phone, direction, motivation, resume_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := pick(r.db, exec).QueryRowContext(ctx, query,
		app.UserID,
		app.FullName,
		app.Email,
		app.Phone,
		string(app.Direction),
		app.Motivation,
		app.ResumePath,
	).Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		if isConstraintViolation(err, pqUniqueViolation, "applications_user_id_key") {
			return ErrApplicationConflict
		}
		if isConstraintViolation(err, pqForeignKeyViolation, "") {
			return ErrUserNotFound
		}
		return wrapConflict(err, "failed to create application")
	}
	return nil
}

func (r *postgresApplicationRepository) GetByUserID(ctx context.Context, userID int) (*models.Application, error) {
	query := `
		SELECT id, user_id, full_name, email, phone, direction, motivation, resume_path, created_at
		FROM applications
		WHERE user_id = $1`

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

func (r *postgresApplicationRepository) ExistsForUser(ctx context.Context, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return exists, nil
}

// ListWithUsers - все заявки с email аккаунта, новые сверху.
func (r *postgresApplicationRepository) ListWithUsers(ctx context.Context) ([]models.Application, error) {
	query := `
		SELECT a.id, a.user_id, a.full_name, a.email, a.phone, a.direction, a.motivation, a.resume_path, a.created_at,
		       u.email
		FROM applications a
		JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC, a.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]models.Application, 0)
	for rows.Next() {
		var a models.Application
		var direction string
		var motivation, resume sql.NullString
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.FullName, &a.Email, &a.Phone, &direction, &motivation, &resume, &a.CreatedAt,
			&a.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		a.Direction = models.TestOutcome(direction)
		a.Motivation = nullableString(motivation)
		a.ResumePath = nullableString(resume)
		apps = append(apps, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	return apps, nil
}

func (r *postgresApplicationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return n, nil
}

func scanApplication(row rowScanner) (*models.Application, error) {
	a := &models.Application{}
	var direction string
	var motivation, resume sql.NullString
	err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Email, &a.Phone, &direction, &motivation, &resume, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Direction = models.TestOutcome(direction)
	a.Motivation = nullableString(motivation)
	a.ResumePath = nullableString(resume)
	return a, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
