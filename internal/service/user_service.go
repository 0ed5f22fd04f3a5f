package service

import (
	"context"
	"errors"

	"arcronym/internal/model"
	"arcronym/internal/repository"

	"github.com/rs/zerolog"
)

var ErrUserNotFound = errors.New("user not found")

const RoleAdmin = "admin"

type UserService interface {
	Get(ctx context.Context, id string) (*model.User, error)
	// GetByEmail resolves the user behind a session
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// EnsureRoles assigns roles to a user that has none yet. The only user of a fresh
	// installation becomes an admin.
	EnsureRoles(ctx context.Context, u *model.User) error
}

type userService struct {
	userRepo   repository.UserRepository
	userLogger zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		userLogger: logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) EnsureRoles(ctx context.Context, u *model.User) error {
	if _, ok := u.Roles(); ok {
		return nil
	}
	users, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return err
	}
	roles := []string{}
	if users == 1 {
		roles = append(roles, RoleAdmin)
	}
	prefs := u.WithRoles(roles)
	if err := s.userRepo.UpdateUserPreferences(ctx, u.ID, prefs); err != nil {
		s.userLogger.Error().Err(err).Str("user_id", u.ID).Msg("Failed to assign roles")
		return err
	}
	u.Preferences = prefs
	s.userLogger.Info().Str("user_id", u.ID).Strs("roles", roles).Msg("Assigned roles")
	return nil
}
