package repository

import (
	"context"
	"errors"
	"fmt"

	"arcronym/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository reads platform users. The "User" table belongs to the host platform.
type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserPreferences(ctx context.Context, id string, prefs map[string]any) error
	CountUsers(ctx context.Context) (int64, error)
}

const userColumns = `"id", "name", "email", "image", "preferences"`

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

func (r *userRepo) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM public."User" WHERE `+where, arg)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Image, &u.Preferences); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if u.Preferences == nil {
		u.Preferences = map[string]any{}
	}
	return &u, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := r.getUser(ctx, `"id" = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting user by id %s: %w", id, err)
	}
	return u, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := r.getUser(ctx, `"email" = $1`, email)
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

func (r *userRepo) UpdateUserPreferences(ctx context.Context, id string, prefs map[string]any) error {
	_, err := r.pool.Exec(ctx, `UPDATE public."User" SET "preferences" = $1 WHERE "id" = $2`, prefs, id)
	if err != nil {
		return fmt.Errorf("updating preferences of user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM public."User"`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}
