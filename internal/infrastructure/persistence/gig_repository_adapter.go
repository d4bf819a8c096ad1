package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/jmoiron/sqlx"
)

const gigColumns = `id, author_id, title, description, price, status, created_at, updated_at`

type GigRepositoryAdapter struct {
	db *sqlx.DB
}

func NewGigRepositoryAdapter(db *sqlx.DB) *GigRepositoryAdapter {
	return &GigRepositoryAdapter{db: db}
}

func (r *GigRepositoryAdapter) Create(ctx context.Context, gig *entity.Gig) error {
	query := `
		INSERT INTO gigs (id, author_id, title, description, price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		gig.ID, gig.AuthorID, gig.Title, gig.Description, gig.Price,
		string(gig.Status), gig.CreatedAt, gig.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать заказ")
	}
	return nil
}

func (r *GigRepositoryAdapter) Update(ctx context.Context, gig *entity.Gig) error {
	query := `
		UPDATE gigs SET title = $2, description = $3, price = $4, status = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		gig.ID, gig.Title, gig.Description, gig.Price, string(gig.Status), gig.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить заказ")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrGigNotFound
	}
	return nil
}

func (r *GigRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	var g gigRow
	query := `SELECT ` + gigColumns + ` FROM gigs WHERE id = $1`
	if err := r.db.GetContext(ctx, &g, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заказ")
	}
	return g.toEntity(), nil
}

func (r *GigRepositoryAdapter) List(ctx context.Context, filter repository.GigFilter) ([]*entity.Gig, int, error) {
	baseQuery := `FROM gigs WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(*filter.Status))
		argNum++
	}

	if filter.AuthorID != nil {
		baseQuery += fmt.Sprintf(" AND author_id = $%d", argNum)
		args = append(args, *filter.AuthorID)
		argNum++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать заказы")
	}

	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		gigColumns, baseQuery, argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var rows []gigRow
	if err := r.db.SelectContext(ctx, &rows, selectQuery, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заказы")
	}

	gigs := make([]*entity.Gig, len(rows))
	for i := range rows {
		gigs[i] = rows[i].toEntity()
	}
	return gigs, total, nil
}

type gigRow struct {
	ID          uuid.UUID `db:"id"`
	AuthorID    uuid.UUID `db:"author_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (g *gigRow) toEntity() *entity.Gig {
	status, _ := valueobject.NewGigStatus(g.Status)
	return &entity.Gig{
		ID:          g.ID,
		AuthorID:    g.AuthorID,
		Title:       g.Title,
		Description: g.Description,
		Price:       g.Price,
		Status:      status,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
