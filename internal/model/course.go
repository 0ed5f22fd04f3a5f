package model

import "time"

// Course is a top-level container owned by a user. IsShared is computed at read time and never
// persisted.
type Course struct {
	ID          string         `db:"id" json:"id"`
	UserID      string         `db:"userId" json:"userId"`
	Name        string         `db:"name" json:"name"`
	CreatedAt   time.Time      `db:"createdAt" json:"createdAt"`
	Description *string        `db:"description" json:"description"`
	Visibility  int16          `db:"visibility" json:"visibility"`
	Labels      []string       `db:"labels" json:"labels"`
	Options     map[string]any `db:"options" json:"options"`
	IsShared    bool           `db:"-" json:"isShared"`
}

// Clone returns a copy of c that shares no mutable state with it.
func (c Course) Clone() Course {
	out := c
	if c.Description != nil {
		d := *c.Description
		out.Description = &d
	}
	if c.Labels != nil {
		out.Labels = append([]string{}, c.Labels...)
	}
	if c.Options != nil {
		out.Options = make(map[string]any, len(c.Options))
		for k, v := range c.Options {
			out.Options[k] = v
		}
	}
	return out
}

// CourseCreate holds the fields accepted when inserting a course. Nil fields take the column
// defaults.
type CourseCreate struct {
	Name        string
	Description *string
	Visibility  *int16
	Labels      []string
	Options     map[string]any
}

// CourseUpdate is a partial update: only non-nil fields are written.
type CourseUpdate struct {
	ID          string
	Name        *string
	Description *string
	Visibility  *int16
	Labels      *[]string
	Options     map[string]any
}

// Project is reserved for future course projects; courses currently never have any.
type Project struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CourseDetail is a course with everything the course page needs attached.
type CourseDetail struct {
	Course

	// Original is the row as read, taken before any derived field was attached.
	Original  Course     `json:"_"`
	User      *User      `json:"user"`
	Shares    []Share    `json:"shares"`
	Resources []Resource `json:"resources"`
	Projects  []Project  `json:"projects"`
}
