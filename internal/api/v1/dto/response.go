package dto

import "arcronym/internal/model"

// ActionResultDTO is returned by a form action that succeeded
type ActionResultDTO struct {
	Success bool `json:"success"`
}

// ErrorResponseDTO is returned by a form action that failed. Fields is only set when the
// submission failed validation.
type ErrorResponseDTO struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// CoursesPageDTO is the data of the course list page
type CoursesPageDTO struct {
	User    *model.User    `json:"user"`
	Courses []model.Course `json:"courses"`
}

// ResourceResponseDTO is a resource together with how it is presented
type ResourceResponseDTO struct {
	model.Resource
	Info model.ResourceInfo `json:"info"`
	URL  string             `json:"url,omitempty"`
}

// StatusResponseDTO summarises stored data
type StatusResponseDTO struct {
	Status string `json:"status"`
}
