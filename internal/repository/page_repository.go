package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/page-delivery-service/internal/domain"
)

// PageRepository persists renderable pages. Lookups are always scoped to a
// collection so a page can never be fetched through a foreign scope.
type PageRepository interface {
	Create(ctx context.Context, page *domain.Page) error
	GetByID(ctx context.Context, collectionID, pageID string) (*domain.Page, error)
	ListByCollection(ctx context.Context, collectionID string) ([]domain.Page, error)
}

type pageRepository struct {
	pool *pgxpool.Pool
}

// NewPageRepository constructs repository.
func NewPageRepository(pool *pgxpool.Pool) PageRepository {
	return &pageRepository{pool: pool}
}

func (r *pageRepository) Create(ctx context.Context, page *domain.Page) error {
	const query = `
        INSERT INTO pages (id, collection_id, title, markup, asset_key)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		page.ID,
		page.CollectionID,
		page.Title,
		page.Markup,
		page.AssetKey,
	).Scan(&page.CreatedAt, &page.UpdatedAt)
}

func (r *pageRepository) GetByID(ctx context.Context, collectionID, pageID string) (*domain.Page, error) {
	const query = `
        SELECT id, collection_id, title, markup, asset_key, created_at, updated_at
        FROM pages WHERE collection_id=$1 AND id=$2`
	var page domain.Page
	err := r.pool.QueryRow(ctx, query, collectionID, pageID).Scan(
		&page.ID,
		&page.CollectionID,
		&page.Title,
		&page.Markup,
		&page.AssetKey,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) ListByCollection(ctx context.Context, collectionID string) ([]domain.Page, error) {
	const query = `
        SELECT id, collection_id, title, markup, asset_key, created_at, updated_at
        FROM pages WHERE collection_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Page
	for rows.Next() {
		var page domain.Page
		if err := rows.Scan(
			&page.ID,
			&page.CollectionID,
			&page.Title,
			&page.Markup,
			&page.AssetKey,
			&page.CreatedAt,
			&page.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, page)
	}
	return result, rows.Err()
}
