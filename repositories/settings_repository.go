package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/career-day/models"
)

var ErrSettingsNotFound = errors.New("event settings not found")

// SettingsRepository работает с единственной строкой event_settings (минимальный id).
type SettingsRepository interface {
	Get(ctx context.Context) (*models.EventSettings, error)
	Create(ctx context.Context, s *models.EventSettings) error
	Update(ctx context.Context, s *models.EventSettings) error
}

type postgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) SettingsRepository {
	return &postgresSettingsRepository{db: db}
}

func (r *postgresSettingsRepository) Get(ctx context.Context) (*models.EventSettings, error) {
	query := `SELECT id, event_name, welcome_text FROM event_settings ORDER BY id ASC LIMIT 1`

	s := &models.EventSettings{}
	var welcome sql.NullString
	err := r.db.QueryRowContext(ctx, query).Scan(&s.ID, &s.EventName, &welcome)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	s.WelcomeText = nullableString(welcome)
	return s, nil
}

func (r *postgresSettingsRepository) Create(ctx context.Context, s *models.EventSettings) error {
	query := `INSERT INTO event_settings (event_name, welcome_text) VALUES ($1, $2) RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, s.EventName, s.WelcomeText).Scan(&s.ID); err != nil {
		return fmt.Errorf("failed to create settings: %w", err)
	}
	return nil
}

func (r *postgresSettingsRepository) Update(ctx context.Context, s *models.EventSettings) error {
	query := `UPDATE event_settings SET event_name = $1, welcome_text = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, s.EventName, s.WelcomeText, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return checkAffectedRows(result, ErrSettingsNotFound)
}
