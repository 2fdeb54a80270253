package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/career-day/models"
)

var ErrQuestionNotFound = errors.New("question not found")

type QuestionRepository interface {
	Create(ctx context.Context, q *models.TestQuestion) error
	GetByID(ctx context.Context, id int) (*models.TestQuestion, error)
	List(ctx context.Context) ([]models.TestQuestion, error)
	Update(ctx context.Context, q *models.TestQuestion) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresQuestionRepository struct {
	db *sql.DB
}

func NewPostgresQuestionRepository(db *sql.DB) QuestionRepository {
	return &postgresQuestionRepository{db: db}
}

func (r *postgresQuestionRepository) Create(ctx context.Context, q *models.TestQuestion) error {
	query := `
		INSERT INTO test_questions (question, options, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, q.Question, q.Options, q.Order).Scan(&q.ID); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *postgresQuestionRepository) GetByID(ctx context.Context, id int) (*models.TestQuestion, error) {
	query := `SELECT id, question, options, sort_order FROM test_questions WHERE id = $1`

	var q models.TestQuestion
	err := r.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.Question, &q.Options, &q.Order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &q, nil
}

// List отдаёт вопросы в порядке показа.
func (r *postgresQuestionRepository) List(ctx context.Context) ([]models.TestQuestion, error) {
	query := `SELECT id, question, options, sort_order FROM test_questions ORDER BY sort_order ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]models.TestQuestion, 0)
	for rows.Next() {
		var q models.TestQuestion
		if err := rows.Scan(&q.ID, &q.Question, &q.Options, &q.Order); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question rows: %w", err)
	}
	return questions, nil
}

func (r *postgresQuestionRepository) Update(ctx context.Context, q *models.TestQuestion) error {
	query := `UPDATE test_questions SET question = $1, options = $2, sort_order = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, q.Question, q.Options, q.Order, q.ID)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return checkAffectedRows(result, ErrQuestionNotFound)
}

func (r *postgresQuestionRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM test_questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return checkAffectedRows(result, ErrQuestionNotFound)
}

func (r *postgresQuestionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM test_questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}
