package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const completionColumns = `id, gig_id, provider_id, description, attachments, status, created_at, reviewed_at, rejection_reason`

type CompletionRepositoryAdapter struct {
	db *sqlx.DB
}

func NewCompletionRepositoryAdapter(db *sqlx.DB) *CompletionRepositoryAdapter {
	return &CompletionRepositoryAdapter{db: db}
}

// Create полагается на частичный уникальный индекс job_completions(gig_id) WHERE status = 'pending'.
func (r *CompletionRepositoryAdapter) Create(ctx context.Context, c *entity.JobCompletion) error {
	query := `
		INSERT INTO job_completions (` + completionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.GigID, c.ProviderID, c.Description, pq.Array(c.Attachments),
		string(c.Status), c.CreatedAt, c.ReviewedAt, c.RejectionReason,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Wrap(err, apperror.ErrCodeConflict, "запрос на завершение уже существует")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить запрос на завершение")
	}
	return nil
}

// Update срабатывает только для pending заявки: из двух параллельных решений проходит одно.
func (r *CompletionRepositoryAdapter) Update(ctx context.Context, c *entity.JobCompletion) error {
	query := `
		UPDATE job_completions SET status = $2, reviewed_at = $3, rejection_reason = $4
		WHERE id = $1 AND status = 'pending'
	`
	res, err := r.db.ExecContext(ctx, query, c.ID, string(c.Status), c.ReviewedAt, c.RejectionReason)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить запрос на завершение")
	}
	if err := expectOneRow(res, apperror.ErrCompletionNotPending); err != nil {
		if apperror.CodeOf(err) != "" {
			return err
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить запрос на завершение")
	}
	return nil
}

func (r *CompletionRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.JobCompletion, error) {
	var row completionRow
	query := `SELECT ` + completionColumns + ` FROM job_completions WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrCompletionNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить запрос на завершение")
	}
	return row.toEntity(), nil
}

func (r *CompletionRepositoryAdapter) FindByGigID(ctx context.Context, gigID uuid.UUID) ([]*entity.JobCompletion, error) {
	var rows []completionRow
	query := `SELECT ` + completionColumns + ` FROM job_completions WHERE gig_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, gigID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить запросы на завершение")
	}
	result := make([]*entity.JobCompletion, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type completionRow struct {
	ID              uuid.UUID      `db:"id"`
	GigID           uuid.UUID      `db:"gig_id"`
	ProviderID      uuid.UUID      `db:"provider_id"`
	Description     string         `db:"description"`
	Attachments     pq.StringArray `db:"attachments"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	ReviewedAt      *time.Time     `db:"reviewed_at"`
	RejectionReason *string        `db:"rejection_reason"`
}

func (c *completionRow) toEntity() *entity.JobCompletion {
	status, _ := valueobject.NewCompletionStatus(c.Status)
	return &entity.JobCompletion{
		ID:              c.ID,
		GigID:           c.GigID,
		ProviderID:      c.ProviderID,
		Description:     c.Description,
		Attachments:     []string(c.Attachments),
		Status:          status,
		CreatedAt:       c.CreatedAt,
		ReviewedAt:      c.ReviewedAt,
		RejectionReason: c.RejectionReason,
	}
}
