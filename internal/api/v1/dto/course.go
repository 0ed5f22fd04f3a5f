package dto

// CourseCreateDTO is the course_create form
type CourseCreateDTO struct {
	Name        string  `form:"name" validate:"required,min=1,utf16max=100"`
	Description *string `form:"description" validate:"omitempty,utf16max=1000"`
}

func (CourseCreateDTO) Messages() map[string]string {
	return courseMessages
}

// CourseEditDTO is the course_edit form
type CourseEditDTO struct {
	ID          string  `form:"id" validate:"required,uuid"`
	Name        string  `form:"name" validate:"required,min=1,utf16max=100"`
	Description *string `form:"description" validate:"omitempty,utf16max=1000"`
}

func (CourseEditDTO) Messages() map[string]string {
	return courseMessages
}

// CourseRemoveDTO is the remove form on the course list
type CourseRemoveDTO struct {
	ID string `form:"id" validate:"required,uuid"`
}

func (CourseRemoveDTO) Messages() map[string]string {
	return courseMessages
}

var courseMessages = map[string]string{
	"id.required":          "Course ID is required",
	"name.required":        "Course name is required",
	"name.min":             "Course name is required",
	"description.utf16max": "Description must be less than 1000 characters",
}
