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

const proposalColumns = `id, gig_id, responder_id, created_by, title, description, proposed_price,
	timeline_days, deliverables, terms, expires_at, status, parent_proposal_id,
	is_counter_proposal, rejection_reason, created_at, updated_at`

// ProposalRepositoryAdapter хранит предложения в таблице gig_responses.
type ProposalRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProposalRepositoryAdapter(db *sqlx.DB) *ProposalRepositoryAdapter {
	return &ProposalRepositoryAdapter{db: db}
}

func (r *ProposalRepositoryAdapter) Create(ctx context.Context, p *entity.Proposal) error {
	query := `
		INSERT INTO gig_responses (` + proposalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.GigID, p.ResponderID, p.CreatedBy, p.Title, p.Description, p.ProposedPrice,
		p.TimelineDays, pq.Array(p.Deliverables), p.Terms, p.ExpiresAt, string(p.Status),
		p.ParentProposalID, p.IsCounterProposal, p.RejectionReason, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать предложение")
	}
	return nil
}

// Update меняет только статус и причину отказа: содержимое предложения неизменно.
func (r *ProposalRepositoryAdapter) Update(ctx context.Context, p *entity.Proposal) error {
	return r.updatePending(ctx, r.db, p)
}

// Accept выполняет оба условных UPDATE в одной транзакции. Второй из параллельных
// запросов ждёт блокировку строки заказа и после коммита первого уже не находит
// его в статусе approved.
func (r *ProposalRepositoryAdapter) Accept(ctx context.Context, p *entity.Proposal, gig *entity.Gig) error {
	err := withTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE gigs SET status = $2, updated_at = $3 WHERE id = $1 AND status = 'approved'`,
			gig.ID, string(gig.Status), gig.UpdatedAt,
		)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус заказа")
		}
		if err := expectOneRow(res, apperror.ErrGigNotOpenForProposals); err != nil {
			return err
		}
		return r.updatePending(ctx, tx, p)
	})
	if err != nil && apperror.CodeOf(err) == "" {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось принять предложение")
	}
	return err
}

func (r *ProposalRepositoryAdapter) updatePending(ctx context.Context, exec sqlx.ExecerContext, p *entity.Proposal) error {
	query := `
		UPDATE gig_responses SET status = $2, rejection_reason = $3, updated_at = $4
		WHERE id = $1 AND status = 'pending'
	`
	res, err := exec.ExecContext(ctx, query, p.ID, string(p.Status), p.RejectionReason, p.UpdatedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить предложение")
	}
	if err := expectOneRow(res, apperror.ErrProposalNotPending); err != nil {
		if apperror.CodeOf(err) != "" {
			return err
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить предложение")
	}
	return nil
}

func (r *ProposalRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	var p proposalRow
	query := `SELECT ` + proposalColumns + ` FROM gig_responses WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложение")
	}
	return p.toEntity(), nil
}

func (r *ProposalRepositoryAdapter) FindByGigID(ctx context.Context, gigID uuid.UUID) ([]*entity.Proposal, error) {
	var rows []proposalRow
	query := `SELECT ` + proposalColumns + ` FROM gig_responses WHERE gig_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, gigID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения")
	}
	return toProposalEntities(rows), nil
}

func (r *ProposalRepositoryAdapter) FindByResponderID(ctx context.Context, responderID uuid.UUID) ([]*entity.Proposal, error) {
	var rows []proposalRow
	query := `SELECT ` + proposalColumns + ` FROM gig_responses WHERE responder_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, responderID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения")
	}
	return toProposalEntities(rows), nil
}

func (r *ProposalRepositoryAdapter) FindAcceptedByGigID(ctx context.Context, gigID uuid.UUID) (*entity.Proposal, error) {
	var p proposalRow
	query := `SELECT ` + proposalColumns + ` FROM gig_responses
		WHERE gig_id = $1 AND status = 'accepted' ORDER BY updated_at DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &p, query, gigID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложение")
	}
	return p.toEntity(), nil
}

type proposalRow struct {
	ID                uuid.UUID      `db:"id"`
	GigID             uuid.UUID      `db:"gig_id"`
	ResponderID       uuid.UUID      `db:"responder_id"`
	CreatedBy         uuid.UUID      `db:"created_by"`
	Title             string         `db:"title"`
	Description       string         `db:"description"`
	ProposedPrice     float64        `db:"proposed_price"`
	TimelineDays      int            `db:"timeline_days"`
	Deliverables      pq.StringArray `db:"deliverables"`
	Terms             *string        `db:"terms"`
	ExpiresAt         *time.Time     `db:"expires_at"`
	Status            string         `db:"status"`
	ParentProposalID  *uuid.UUID     `db:"parent_proposal_id"`
	IsCounterProposal bool           `db:"is_counter_proposal"`
	RejectionReason   *string        `db:"rejection_reason"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func (p *proposalRow) toEntity() *entity.Proposal {
	status, _ := valueobject.NewProposalStatus(p.Status)
	return &entity.Proposal{
		ID:                p.ID,
		GigID:             p.GigID,
		ResponderID:       p.ResponderID,
		CreatedBy:         p.CreatedBy,
		Title:             p.Title,
		Description:       p.Description,
		ProposedPrice:     p.ProposedPrice,
		TimelineDays:      p.TimelineDays,
		Deliverables:      []string(p.Deliverables),
		Terms:             p.Terms,
		ExpiresAt:         p.ExpiresAt,
		Status:            status,
		ParentProposalID:  p.ParentProposalID,
		IsCounterProposal: p.IsCounterProposal,
		RejectionReason:   p.RejectionReason,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toProposalEntities(rows []proposalRow) []*entity.Proposal {
	result := make([]*entity.Proposal, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result
}
