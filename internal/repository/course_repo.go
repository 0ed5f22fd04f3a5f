package repository

import (
	"context"
	"errors"
	"fmt"

	"arcronym/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	// GetCoursesByUserID retrieves the courses owned by a user
	GetCoursesByUserID(ctx context.Context, userID string) ([]model.Course, error)
	// GetSharedCoursesByUserID retrieves courses shared with a user through a course share
	GetSharedCoursesByUserID(ctx context.Context, userID string) ([]model.Course, error)
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	CreateCourse(ctx context.Context, userID string, c model.CourseCreate) (*model.Course, error)
	UpdateCourse(ctx context.Context, u model.CourseUpdate) error
	// DeleteCourse deletes a course; its resources go with it through ON DELETE CASCADE
	DeleteCourse(ctx context.Context, courseID string) error
	CountCourses(ctx context.Context) (int64, error)
}

const courseColumns = `course."id", course."userId", course."name", course."createdAt", course."description",
	course."visibility", course."labels", course."options"`

type courseRepo struct {
	pool *pgxpool.Pool
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(pool *pgxpool.Pool) CourseRepository {
	return &courseRepo{pool: pool}
}

func scanCourse(row pgx.Row, c *model.Course) error {
	return row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.CreatedAt,
		&c.Description,
		&c.Visibility,
		&c.Labels,
		&c.Options,
	)
}

func (r *courseRepo) queryCourses(ctx context.Context, query string, args ...any) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course rows: %w", err)
	}
	return courses, nil
}

func (r *courseRepo) GetCoursesByUserID(ctx context.Context, userID string) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + `
		FROM arc."Course" AS course
		WHERE course."userId" = $1`
	courses, err := r.queryCourses(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying courses for user %s: %w", userID, err)
	}
	return courses, nil
}

func (r *courseRepo) GetSharedCoursesByUserID(ctx context.Context, userID string) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + `
		FROM arc."Course" AS course
		INNER JOIN shares."Course" AS share ON share."itemId" = course."id"
		WHERE share."userId" = $1`
	courses, err := r.queryCourses(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying courses shared with user %s: %w", userID, err)
	}
	return courses, nil
}

// GetCourseByID returns nil without an error when no course has the given ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := `SELECT ` + courseColumns + `
		FROM arc."Course" AS course
		WHERE course."id" = $1`
	var c model.Course
	if err := scanCourse(r.pool.QueryRow(ctx, query, courseID), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting course by id %s: %w", courseID, err)
	}
	return &c, nil
}

// CreateCourse inserts a course owned by userID. Fields left nil take the column defaults.
func (r *courseRepo) CreateCourse(ctx context.Context, userID string, data model.CourseCreate) (*model.Course, error) {
	query := `
		INSERT INTO arc."Course" AS course ("userId", "name", "description", "visibility", "labels", "options")
		VALUES ($1, $2, $3, COALESCE($4, 0), COALESCE($5, '{}'::text[]), COALESCE($6, '{}'::jsonb))
		RETURNING ` + courseColumns
	var c model.Course
	err := scanCourse(r.pool.QueryRow(ctx, query,
		userID, data.Name, data.Description, data.Visibility, data.Labels, data.Options,
	), &c)
	if err != nil {
		return nil, fmt.Errorf("creating course: %w", err)
	}
	return &c, nil
}

// UpdateCourse writes the non-nil fields of u. An update without fields does nothing.
func (r *courseRepo) UpdateCourse(ctx context.Context, u model.CourseUpdate) error {
	var b updateBuilder
	if u.Name != nil {
		b.set(`"name"`, *u.Name)
	}
	if u.Description != nil {
		b.set(`"description"`, *u.Description)
	}
	if u.Visibility != nil {
		b.set(`"visibility"`, *u.Visibility)
	}
	if u.Labels != nil {
		labels := *u.Labels
		if labels == nil {
			labels = []string{}
		}
		b.set(`"labels"`, labels)
	}
	if u.Options != nil {
		b.set(`"options"`, u.Options)
	}
	if b.empty() {
		return nil
	}

	query, args := b.query(`arc."Course"`, u.ID)
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("updating course %s: %w", u.ID, err)
	}
	return nil
}

func (r *courseRepo) DeleteCourse(ctx context.Context, courseID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM arc."Course" WHERE "id" = $1`, courseID)
	if err != nil {
		return fmt.Errorf("deleting course %s: %w", courseID, err)
	}
	return nil
}

func (r *courseRepo) CountCourses(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM arc."Course"`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting courses: %w", err)
	}
	return n, nil
}
