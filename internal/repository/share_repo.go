package repository

import (
	"context"
	"fmt"

	"arcronym/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ShareRepository reads share grants. Each shared entity type has its own table in the
// shares schema, keyed by the shared item's ID.
type ShareRepository interface {
	GetShares(ctx context.Context, entityType, itemID string) ([]model.Share, error)
}

type shareRepo struct {
	pool *pgxpool.Pool
}

func NewShareRepo(pool *pgxpool.Pool) ShareRepository {
	return &shareRepo{pool: pool}
}

func (r *shareRepo) GetShares(ctx context.Context, entityType, itemID string) ([]model.Share, error) {
	table := pgx.Identifier{"shares", entityType}.Sanitize()
	query := `SELECT "itemId", "userId", "createdAt", "permission" FROM ` + table + ` WHERE "itemId" = $1`

	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying %s shares for %s: %w", entityType, itemID, err)
	}
	defer rows.Close()

	shares := []model.Share{}
	for rows.Next() {
		var s model.Share
		if err := rows.Scan(&s.ItemID, &s.UserID, &s.CreatedAt, &s.Permission); err != nil {
			return nil, fmt.Errorf("scanning share row: %w", err)
		}
		shares = append(shares, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating share rows: %w", err)
	}
	return shares, nil
}
