package service

import (
	"context"
	"errors"
	"fmt"

	"arcronym/internal/model"
	"arcronym/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrMissingField   = errors.New("missing required field")
)

// CourseService defines course-related operations
type CourseService interface {
	// GetCourses returns the courses owned by userID followed by the courses shared with them
	GetCourses(ctx context.Context, userID string) ([]model.Course, error)
	// GetCourse returns a course with its owner, shares and resources attached. viewerUserID may
	// be empty.
	GetCourse(ctx context.Context, courseID, viewerUserID string) (*model.CourseDetail, error)
	CreateCourse(ctx context.Context, userID string, data model.CourseCreate) (*model.Course, error)
	UpdateCourse(ctx context.Context, u model.CourseUpdate) error
	DeleteCourse(ctx context.Context, courseID string) error
}

type courseService struct {
	repo         repository.CourseRepository
	resourceRepo repository.ResourceRepository
	shareRepo    repository.ShareRepository
	userRepo     repository.UserRepository
	courseLogger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	repo repository.CourseRepository,
	resourceRepo repository.ResourceRepository,
	shareRepo repository.ShareRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		repo:         repo,
		resourceRepo: resourceRepo,
		shareRepo:    shareRepo,
		userRepo:     userRepo,
		courseLogger: logger.With().Str("service", "CourseService").Logger(),
	}
}

// The two sets are concatenated as read. Shares are only ever granted to users other than the
// owner, so no course is expected in both, but nothing here removes duplicates.
func (s *courseService) GetCourses(ctx context.Context, userID string) ([]model.Course, error) {
	owned, err := s.repo.GetCoursesByUserID(ctx, userID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to get owned courses")
		return nil, err
	}
	shared, err := s.repo.GetSharedCoursesByUserID(ctx, userID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to get shared courses")
		return nil, err
	}

	result := make([]model.Course, 0, len(owned)+len(shared))
	for _, c := range owned {
		c.IsShared = false
		result = append(result, c)
	}
	for _, c := range shared {
		c.IsShared = true
		result = append(result, c)
	}
	return result, nil
}

func (s *courseService) GetCourse(ctx context.Context, courseID, viewerUserID string) (*model.CourseDetail, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to get course by ID")
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	detail := &model.CourseDetail{Original: course.Clone()}

	shares, err := s.shareRepo.GetShares(ctx, model.ShareEntityCourse, courseID)
	if err != nil {
		return nil, fmt.Errorf("getting shares of course %s: %w", courseID, err)
	}
	owner, err := s.userRepo.GetUserByID(ctx, course.UserID)
	if err != nil {
		return nil, fmt.Errorf("getting owner of course %s: %w", courseID, err)
	}
	resources, err := s.resourceRepo.GetResourcesByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("getting resources of course %s: %w", courseID, err)
	}

	detail.Course = *course
	detail.User = owner
	detail.Shares = shares
	detail.IsShared = false
	for _, share := range shares {
		if share.UserID == viewerUserID {
			detail.IsShared = true
			break
		}
	}
	detail.Resources = resources
	detail.Projects = []model.Project{}
	return detail, nil
}

// CreateCourse inserts a course. The owner is always userID.
func (s *courseService) CreateCourse(ctx context.Context, userID string, data model.CourseCreate) (*model.Course, error) {
	if data.Name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	course, err := s.repo.CreateCourse(ctx, userID, data)
	if err != nil {
		s.courseLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to create course")
		return nil, err
	}
	return course, nil
}

// UpdateCourse overwrites the fields present in u and leaves the others untouched.
func (s *courseService) UpdateCourse(ctx context.Context, u model.CourseUpdate) error {
	if u.ID == "" {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if err := s.repo.UpdateCourse(ctx, u); err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", u.ID).Msg("Failed to update course")
		return err
	}
	return nil
}

// DeleteCourse removes a course; the database removes its resources with it
func (s *courseService) DeleteCourse(ctx context.Context, courseID string) error {
	if err := s.repo.DeleteCourse(ctx, courseID); err != nil {
		s.courseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to delete course record")
		return err
	}
	return nil
}
