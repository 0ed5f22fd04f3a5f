// Package repotest provides an in-memory implementation of the repositories for tests.
package repotest

import (
	"context"
	"sync"
	"time"

	"arcronym/internal/model"

	"github.com/google/uuid"
)

// Store implements every repository over in-memory tables. Deleting a course deletes its
// resources, as the database does. Set FailOn[<method name>] to make a method fail.
type Store struct {
	mu        sync.Mutex
	courses   []model.Course
	resources []model.Resource
	users     []model.User
	shares    map[string][]model.Share

	FailOn map[string]error
	Now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		shares: make(map[string][]model.Share),
		FailOn: make(map[string]error),
		Now:    time.Now,
	}
}

func (s *Store) fail(method string) error {
	return s.FailOn[method]
}

// AddUser inserts a user and returns it with an id assigned when it had none.
func (s *Store) AddUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users = append(s.users, u)
	return u
}

// Share grants userID access to the item.
func (s *Store) Share(entityType, itemID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entityType + "/" + itemID
	s.shares[key] = append(s.shares[key], model.Share{ItemID: itemID, UserID: userID, CreatedAt: s.Now()})
}

func (s *Store) GetCoursesByUserID(_ context.Context, userID string) ([]model.Course, error) {
	if err := s.fail("GetCoursesByUserID"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Course
	for _, c := range s.courses {
		if c.UserID == userID {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (s *Store) GetSharedCoursesByUserID(_ context.Context, userID string) ([]model.Course, error) {
	if err := s.fail("GetSharedCoursesByUserID"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Course
	for _, c := range s.courses {
		for _, sh := range s.shares[model.ShareEntityCourse+"/"+c.ID] {
			if sh.UserID == userID {
				out = append(out, c.Clone())
			}
		}
	}
	return out, nil
}

func (s *Store) GetCourseByID(_ context.Context, courseID string) (*model.Course, error) {
	if err := s.fail("GetCourseByID"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.courses {
		if c.ID == courseID {
			out := c.Clone()
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateCourse(_ context.Context, userID string, data model.CourseCreate) (*model.Course, error) {
	if err := s.fail("CreateCourse"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.Course{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        data.Name,
		CreatedAt:   s.Now(),
		Description: data.Description,
		Labels:      data.Labels,
		Options:     data.Options,
	}
	if data.Visibility != nil {
		c.Visibility = *data.Visibility
	}
	if c.Labels == nil {
		c.Labels = []string{}
	}
	if c.Options == nil {
		c.Options = map[string]any{}
	}
	s.courses = append(s.courses, c.Clone())
	return &c, nil
}

func (s *Store) UpdateCourse(_ context.Context, u model.CourseUpdate) error {
	if err := s.fail("UpdateCourse"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.courses {
		c := &s.courses[i]
		if c.ID != u.ID {
			continue
		}
		if u.Name != nil {
			c.Name = *u.Name
		}
		if u.Description != nil {
			d := *u.Description
			c.Description = &d
		}
		if u.Visibility != nil {
			c.Visibility = *u.Visibility
		}
		if u.Labels != nil {
			c.Labels = append([]string{}, (*u.Labels)...)
		}
		if u.Options != nil {
			c.Options = u.Options
		}
	}
	return nil
}

func (s *Store) DeleteCourse(_ context.Context, courseID string) error {
	if err := s.fail("DeleteCourse"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	courses := s.courses[:0]
	for _, c := range s.courses {
		if c.ID != courseID {
			courses = append(courses, c)
		}
	}
	s.courses = courses
	resources := s.resources[:0]
	for _, r := range s.resources {
		if r.CourseID != courseID {
			resources = append(resources, r)
		}
	}
	s.resources = resources
	return nil
}

func (s *Store) CountCourses(context.Context) (int64, error) {
	if err := s.fail("CountCourses"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.courses)), nil
}

func (s *Store) GetResourcesByCourseID(_ context.Context, courseID string) ([]model.Resource, error) {
	if err := s.fail("GetResourcesByCourseID"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Resource{}
	for _, r := range s.resources {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) GetResourceByID(_ context.Context, resourceID string) (*model.Resource, error) {
	if err := s.fail("GetResourceByID"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.resources {
		if r.ID == resourceID {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateResource(_ context.Context, res *model.Resource) error {
	if err := s.fail("CreateResource"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res.ID = uuid.NewString()
	res.CreatedAt = s.Now()
	res.ModifiedAt = res.CreatedAt
	s.resources = append(s.resources, *res)
	return nil
}

func (s *Store) UpdateResource(_ context.Context, u model.ResourceUpdate) error {
	if err := s.fail("UpdateResource"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.resources {
		r := &s.resources[i]
		if r.ID != u.ID {
			continue
		}
		if u.Name != nil {
			r.Name = *u.Name
		}
		if u.Type != nil {
			r.Type = *u.Type
		}
		if u.Content != nil {
			r.Content = *u.Content
		}
		if u.ModifiedAt != nil {
			r.ModifiedAt = *u.ModifiedAt
		}
	}
	return nil
}

func (s *Store) DeleteResource(_ context.Context, resourceID string) error {
	if err := s.fail("DeleteResource"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	resources := s.resources[:0]
	for _, r := range s.resources {
		if r.ID != resourceID {
			resources = append(resources, r)
		}
	}
	s.resources = resources
	return nil
}

func (s *Store) CountResources(context.Context) (int64, error) {
	if err := s.fail("CountResources"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.resources)), nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if err := s.fail("GetUserByID"); err != nil {
		return nil, err
	}
	return s.findUser(func(u model.User) bool { return u.ID == id }), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if err := s.fail("GetUserByEmail"); err != nil {
		return nil, err
	}
	return s.findUser(func(u model.User) bool { return u.Email == email }), nil
}

func (s *Store) findUser(match func(model.User) bool) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			out := u
			return &out
		}
	}
	return nil
}

func (s *Store) UpdateUserPreferences(_ context.Context, id string, prefs map[string]any) error {
	if err := s.fail("UpdateUserPreferences"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Preferences = prefs
		}
	}
	return nil
}

func (s *Store) CountUsers(context.Context) (int64, error) {
	if err := s.fail("CountUsers"); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *Store) GetShares(_ context.Context, entityType, itemID string) ([]model.Share, error) {
	if err := s.fail("GetShares"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.Share{}, s.shares[entityType+"/"+itemID]...)
	return out, nil
}
