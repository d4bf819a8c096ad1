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
)

const planColumns = `plan_tier, user_type, contact_views, proposals, gig_responses, reset_period,
	search_boost, profile_highlight, price`

type PlanRepositoryAdapter struct {
	db *sqlx.DB
}

func NewPlanRepositoryAdapter(db *sqlx.DB) *PlanRepositoryAdapter {
	return &PlanRepositoryAdapter{db: db}
}

func (r *PlanRepositoryAdapter) FindLimit(ctx context.Context, planTier string, userType valueobject.UserType) (*entity.PlanLimit, error) {
	var row planRow
	query := `SELECT ` + planColumns + ` FROM plan_limits WHERE plan_tier = $1 AND user_type = $2`
	if err := r.db.GetContext(ctx, &row, query, planTier, string(userType)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrPlanNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить тариф")
	}
	return row.toEntity(), nil
}

func (r *PlanRepositoryAdapter) Upsert(ctx context.Context, l *entity.PlanLimit) error {
	query := `
		INSERT INTO plan_limits (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (plan_tier, user_type) DO UPDATE SET
			contact_views = EXCLUDED.contact_views,
			proposals = EXCLUDED.proposals,
			gig_responses = EXCLUDED.gig_responses,
			reset_period = EXCLUDED.reset_period,
			search_boost = EXCLUDED.search_boost,
			profile_highlight = EXCLUDED.profile_highlight,
			price = EXCLUDED.price
	`
	_, err := r.db.ExecContext(ctx, query,
		l.PlanTier, string(l.UserType), l.ContactViews, l.Proposals, l.GigResponses,
		string(l.ResetPeriod), l.SearchBoost, l.ProfileHighlight, l.Price,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить тариф")
	}
	return nil
}

func (r *PlanRepositoryAdapter) List(ctx context.Context) ([]*entity.PlanLimit, error) {
	var rows []planRow
	query := `SELECT ` + planColumns + ` FROM plan_limits ORDER BY price, plan_tier, user_type`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить тарифы")
	}
	result := make([]*entity.PlanLimit, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type planRow struct {
	PlanTier         string  `db:"plan_tier"`
	UserType         string  `db:"user_type"`
	ContactViews     int     `db:"contact_views"`
	Proposals        int     `db:"proposals"`
	GigResponses     int     `db:"gig_responses"`
	ResetPeriod      string  `db:"reset_period"`
	SearchBoost      bool    `db:"search_boost"`
	ProfileHighlight bool    `db:"profile_highlight"`
	Price            float64 `db:"price"`
}

func (p *planRow) toEntity() *entity.PlanLimit {
	userType, _ := valueobject.NewUserType(p.UserType)
	period, err := valueobject.NewResetPeriod(p.ResetPeriod)
	if err != nil {
		period = valueobject.ResetMonthly
	}
	return &entity.PlanLimit{
		PlanTier:         p.PlanTier,
		UserType:         userType,
		ContactViews:     p.ContactViews,
		Proposals:        p.Proposals,
		GigResponses:     p.GigResponses,
		ResetPeriod:      period,
		SearchBoost:      p.SearchBoost,
		ProfileHighlight: p.ProfileHighlight,
		Price:            p.Price,
	}
}

// UsageRepositoryAdapter - журнал расхода квот, только вставка.
type UsageRepositoryAdapter struct {
	db *sqlx.DB
}

func NewUsageRepositoryAdapter(db *sqlx.DB) *UsageRepositoryAdapter {
	return &UsageRepositoryAdapter{db: db}
}

func (r *UsageRepositoryAdapter) Create(ctx context.Context, rec *entity.UsageRecord) error {
	query := `
		INSERT INTO usage_records (id, user_id, action_type, target_id, target_type, credits_used, plan_tier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, string(rec.ActionType), rec.TargetID, rec.TargetType,
		rec.CreditsUsed, rec.PlanTier, rec.CreatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось записать расход квоты")
	}
	return nil
}

func (r *UsageRepositoryAdapter) CountSince(ctx context.Context, userID uuid.UUID, action valueobject.ActionType, since time.Time) (int, error) {
	var used int
	query := `SELECT COALESCE(SUM(credits_used), 0) FROM usage_records
		WHERE user_id = $1 AND action_type = $2 AND created_at >= $3`
	if err := r.db.GetContext(ctx, &used, query, userID, string(action), since); err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать расход квоты")
	}
	return used, nil
}

type ProfileRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProfileRepositoryAdapter(db *sqlx.DB) *ProfileRepositoryAdapter {
	return &ProfileRepositoryAdapter{db: db}
}

func (r *ProfileRepositoryAdapter) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	var row profileRow
	query := `SELECT user_id, full_name, email, phone, plan_tier, user_type FROM profiles WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль")
	}
	userType, _ := valueobject.NewUserType(row.UserType)
	return &entity.Profile{
		UserID:   row.UserID,
		FullName: row.FullName,
		Email:    row.Email,
		Phone:    row.Phone,
		PlanTier: row.PlanTier,
		UserType: userType,
	}, nil
}

type profileRow struct {
	UserID   uuid.UUID `db:"user_id"`
	FullName string    `db:"full_name"`
	Email    string    `db:"email"`
	Phone    *string   `db:"phone"`
	PlanTier string    `db:"plan_tier"`
	UserType string    `db:"user_type"`
}

type ContactUnlockRepositoryAdapter struct {
	db *sqlx.DB
}

func NewContactUnlockRepositoryAdapter(db *sqlx.DB) *ContactUnlockRepositoryAdapter {
	return &ContactUnlockRepositoryAdapter{db: db}
}

func (r *ContactUnlockRepositoryAdapter) Exists(ctx context.Context, userID, gigID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM contact_unlocks WHERE user_id = $1 AND gig_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, userID, gigID); err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить раскрытие контакта")
	}
	return exists, nil
}

func (r *ContactUnlockRepositoryAdapter) Create(ctx context.Context, u *entity.ContactUnlock) error {
	query := `
		INSERT INTO contact_unlocks (id, user_id, gig_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, gig_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.UserID, u.GigID, u.CreatedAt); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить раскрытие контакта")
	}
	return nil
}
