package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/page-delivery-service/internal/domain"
)

// CollectionRepository persists collections (the owning scope of pages).
type CollectionRepository interface {
	Create(ctx context.Context, collection *domain.Collection) error
	GetByID(ctx context.Context, id string) (*domain.Collection, error)
	ListByOwner(ctx context.Context, ownerAccountID string) ([]domain.Collection, error)
}

type collectionRepository struct {
	pool *pgxpool.Pool
}

// NewCollectionRepository constructs repository.
func NewCollectionRepository(pool *pgxpool.Pool) CollectionRepository {
	return &collectionRepository{pool: pool}
}

func (r *collectionRepository) Create(ctx context.Context, collection *domain.Collection) error {
	const query = `
        INSERT INTO collections (id, owner_account_id, title)
        VALUES ($1,$2,$3)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		collection.ID,
		collection.OwnerAccountID,
		collection.Title,
	).Scan(&collection.CreatedAt)
}

func (r *collectionRepository) GetByID(ctx context.Context, id string) (*domain.Collection, error) {
	const query = `
        SELECT id, owner_account_id, title, created_at
        FROM collections WHERE id=$1`
	var collection domain.Collection
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&collection.ID,
		&collection.OwnerAccountID,
		&collection.Title,
		&collection.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) ListByOwner(ctx context.Context, ownerAccountID string) ([]domain.Collection, error) {
	const query = `
        SELECT id, owner_account_id, title, created_at
        FROM collections WHERE owner_account_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, ownerAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Collection
	for rows.Next() {
		var collection domain.Collection
		if err := rows.Scan(
			&collection.ID,
			&collection.OwnerAccountID,
			&collection.Title,
			&collection.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, collection)
	}
	return result, rows.Err()
}
