package service

import (
	"context"
	"fmt"

	"arcronym/internal/repository"
)

// StatusService summarises what is stored.
type StatusService interface {
	// StatusText returns "<N> courses, <M> resources"
	StatusText(ctx context.Context) (string, error)
}

type statusService struct {
	courseRepo   repository.CourseRepository
	resourceRepo repository.ResourceRepository
}

func NewStatusService(courseRepo repository.CourseRepository, resourceRepo repository.ResourceRepository) StatusService {
	return &statusService{courseRepo: courseRepo, resourceRepo: resourceRepo}
}

func (s *statusService) StatusText(ctx context.Context) (string, error) {
	courses, err := s.courseRepo.CountCourses(ctx)
	if err != nil {
		return "", err
	}
	resources, err := s.resourceRepo.CountResources(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d courses, %d resources", courses, resources), nil
}
