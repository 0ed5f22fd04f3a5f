package repository

import (
	"context"
	"errors"
	"fmt"

	"arcronym/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResourceRepository defines the interface for interacting with resource data
type ResourceRepository interface {
	GetResourcesByCourseID(ctx context.Context, courseID string) ([]model.Resource, error)
	GetResourceByID(ctx context.Context, resourceID string) (*model.Resource, error)
	CreateResource(ctx context.Context, res *model.Resource) error
	UpdateResource(ctx context.Context, u model.ResourceUpdate) error
	DeleteResource(ctx context.Context, resourceID string) error
	CountResources(ctx context.Context) (int64, error)
}

const resourceColumns = `"id", "courseId", "userId", "createdAt", "modifiedAt", "name", "type", "content"`

type resourceRepo struct {
	pool *pgxpool.Pool
}

// NewResourceRepo creates a new ResourceRepository
func NewResourceRepo(pool *pgxpool.Pool) ResourceRepository {
	return &resourceRepo{pool: pool}
}

func scanResource(row pgx.Row, res *model.Resource) error {
	return row.Scan(
		&res.ID,
		&res.CourseID,
		&res.UserID,
		&res.CreatedAt,
		&res.ModifiedAt,
		&res.Name,
		&res.Type,
		&res.Content,
	)
}

func (r *resourceRepo) GetResourcesByCourseID(ctx context.Context, courseID string) ([]model.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM arc."Resource" WHERE "courseId" = $1`
	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("querying resources for course %s: %w", courseID, err)
	}
	defer rows.Close()

	resources := []model.Resource{}
	for rows.Next() {
		var res model.Resource
		if err := scanResource(rows, &res); err != nil {
			return nil, fmt.Errorf("scanning resource row: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resource rows: %w", err)
	}
	return resources, nil
}

// GetResourceByID returns nil without an error when no resource has the given ID
func (r *resourceRepo) GetResourceByID(ctx context.Context, resourceID string) (*model.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM arc."Resource" WHERE "id" = $1`
	var res model.Resource
	if err := scanResource(r.pool.QueryRow(ctx, query, resourceID), &res); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting resource by id %s: %w", resourceID, err)
	}
	return &res, nil
}

// CreateResource inserts res and fills in the server-assigned ID and timestamps
func (r *resourceRepo) CreateResource(ctx context.Context, res *model.Resource) error {
	query := `
		INSERT INTO arc."Resource" ("courseId", "userId", "name", "type", "content")
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + resourceColumns
	err := scanResource(r.pool.QueryRow(ctx, query, res.CourseID, res.UserID, res.Name, res.Type, res.Content), res)
	if err != nil {
		return fmt.Errorf("creating resource: %w", err)
	}
	return nil
}

// UpdateResource writes the non-nil fields of u. An update without fields does nothing.
func (r *resourceRepo) UpdateResource(ctx context.Context, u model.ResourceUpdate) error {
	var b updateBuilder
	if u.Name != nil {
		b.set(`"name"`, *u.Name)
	}
	if u.Type != nil {
		b.set(`"type"`, *u.Type)
	}
	if u.Content != nil {
		b.set(`"content"`, *u.Content)
	}
	if u.ModifiedAt != nil {
		b.set(`"modifiedAt"`, *u.ModifiedAt)
	}
	if b.empty() {
		return nil
	}

	query, args := b.query(`arc."Resource"`, u.ID)
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("updating resource %s: %w", u.ID, err)
	}
	return nil
}

func (r *resourceRepo) DeleteResource(ctx context.Context, resourceID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM arc."Resource" WHERE "id" = $1`, resourceID)
	if err != nil {
		return fmt.Errorf("deleting resource %s: %w", resourceID, err)
	}
	return nil
}

func (r *resourceRepo) CountResources(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM arc."Resource"`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting resources: %w", err)
	}
	return n, nil
}
