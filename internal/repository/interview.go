package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/prepmate/interview-server-go/internal/database"
	"github.com/prepmate/interview-server-go/internal/model"
)

type InterviewRepository interface {
	Create(ctx context.Context, params model.CreateInterviewParams) (*model.Interview, error)
	FindByID(ctx context.Context, id string) (*model.Interview, error)
	FindByUserID(ctx context.Context, userID string) ([]model.InterviewSummary, error)
	UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error
	MarkAbandonedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type interviewRepo struct {
	db *sqlx.DB
}

func NewInterviewRepository(db *sqlx.DB) InterviewRepository {
	return &interviewRepo{db: db}
}

func (r *interviewRepo) Create(ctx context.Context, params model.CreateInterviewParams) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.GetContext(ctx, &interview, `
		INSERT INTO interviews (id, user_id, role, status)
		VALUES ($1, $2, $3, 'in-progress')
		RETURNING *
	`, params.ID, params.UserID, params.Role)
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepo) FindByID(ctx context.Context, id string) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.GetContext(ctx, &interview, `
		SELECT * FROM interviews WHERE id = $1
	`, id)
	return HandleNotFound(&interview, err)
}

func (r *interviewRepo) FindByUserID(ctx context.Context, userID string) ([]model.InterviewSummary, error) {
	var interviews []model.InterviewSummary
	err := r.db.SelectContext(ctx, &interviews, `
		SELECT i.*, COUNT(e.id) AS exchange_count
		FROM interviews i
		LEFT JOIN exchanges e ON e.interview_id = i.id
		WHERE i.user_id = $1
		GROUP BY i.id
		ORDER BY i.created_at DESC
	`, userID)
	return interviews, err
}

func (r *interviewRepo) UpdateStatus(ctx context.Context, id string, status model.InterviewStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE interviews SET status = $2 WHERE id = $1
	`, id, status)
	return err
}

func (r *interviewRepo) MarkAbandonedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE interviews SET status = 'abandoned'
		WHERE status = 'in-progress' AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Exchange Repository

type ExchangeRepository interface {
	Create(ctx context.Context, params model.CreateExchangeParams) (*model.Exchange, error)
	CreatePair(ctx context.Context, answered, standing model.CreateExchangeParams) error
	FindByInterviewID(ctx context.Context, interviewID string) ([]model.Exchange, error)
}

type exchangeRepo struct {
	db *database.DB
}

func NewExchangeRepository(db *database.DB) ExchangeRepository {
	return &exchangeRepo{db: db}
}

func createExchange(ctx context.Context, q database.DBTX, params model.CreateExchangeParams) (*model.Exchange, error) {
	// JSONB wants its parameter as text, not a byte slice.
	var evaluation any
	if params.Evaluation != nil {
		evaluation = string(params.Evaluation)
	}
	var exchange model.Exchange
	err := q.GetContext(ctx, &exchange, `
		INSERT INTO exchanges (interview_id, question, answer, evaluation, score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.InterviewID, params.Question, params.Answer, evaluation, params.Score)
	if err != nil {
		return nil, err
	}
	return &exchange, nil
}

func (r *exchangeRepo) Create(ctx context.Context, params model.CreateExchangeParams) (*model.Exchange, error) {
	return createExchange(ctx, r.db, params)
}

// CreatePair appends the answered row and the new standing question in
// one transaction, so a crash cannot record an answer without the
// question that follows it.
func (r *exchangeRepo) CreatePair(ctx context.Context, answered, standing model.CreateExchangeParams) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := createExchange(ctx, tx, answered); err != nil {
			return err
		}
		_, err := createExchange(ctx, tx, standing)
		return err
	})
}

func (r *exchangeRepo) FindByInterviewID(ctx context.Context, interviewID string) ([]model.Exchange, error) {
	var exchanges []model.Exchange
	err := r.db.SelectContext(ctx, &exchanges, `
		SELECT * FROM exchanges
		WHERE interview_id = $1
		ORDER BY seq ASC
	`, interviewID)
	return exchanges, err
}
