package handler

import (
	"errors"
	"net/http"

	"arcronym/internal/api/v1/dto"
	"arcronym/internal/api/v1/form"
	"arcronym/internal/model"
	"arcronym/internal/service"

	"github.com/rs/zerolog"
)

// CourseHandler handles the course list, the course page and the course actions
type CourseHandler struct {
	courseService service.CourseService
	userService   service.UserService
	parser        *form.Parser
	logger        zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(
	courseService service.CourseService,
	userService service.UserService,
	parser *form.Parser,
	logger zerolog.Logger,
) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		userService:   userService,
		parser:        parser,
		logger:        logger.With().Str("handler", "CourseHandler").Logger(),
	}
}

// RegisterRoutes mounts course routes
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, sessionMw func(http.Handler) http.Handler) {
	mux.Handle("GET /courses", sessionMw(http.HandlerFunc(h.listCourses)))
	mux.Handle("GET /courses/{id}", sessionMw(http.HandlerFunc(h.getCourse)))
	mux.Handle("POST /courses/create", sessionMw(http.HandlerFunc(h.createCourse)))
	mux.Handle("POST /courses/edit", sessionMw(http.HandlerFunc(h.editCourse)))
	mux.Handle("POST /courses/remove", sessionMw(http.HandlerFunc(h.removeCourse)))
}

// listCourses godoc
// @Summary List the signed in user's courses
// @Description Returns the courses owned by the user followed by the courses shared with them.
// @Tags courses
// @Produce json
// @Success 200 {object} dto.CoursesPageDTO
// @Failure 307 {string} string "Redirect to sign in"
// @Router /courses [get]
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	user := pageUser(w, r, h.userService)
	if user == nil {
		return
	}
	courses, err := h.courseService.GetCourses(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to retrieve courses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.CoursesPageDTO{User: user, Courses: courses})
}

// getCourse godoc
// @Summary Get a course
// @Description Returns a course with its owner, shares and resources.
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} model.CourseDetail
// @Failure 404 {string} string "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	user := pageUser(w, r, h.userService)
	if user == nil {
		return
	}
	course, err := h.courseService.GetCourse(r.Context(), r.PathValue("id"), user.ID)
	if errors.Is(err, service.ErrCourseNotFound) || (err == nil && !canView(course, user)) {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to retrieve course", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// createCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Course name"
// @Param description formData string false "Course description"
// @Success 200 {object} dto.ActionResultDTO
// @Failure 400 {object} form.Failure
// @Failure 401 {object} form.Failure
// @Failure 500 {object} form.Failure
// @Router /courses/create [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	user, fail := sessionUser(r, h.userService, h.logger)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	req, fail := form.Parse[dto.CourseCreateDTO](h.parser, w, r)
	if fail != nil {
		writeFailure(w, fail)
		return
	}

	_, err := h.courseService.CreateCourse(r.Context(), user.ID, model.CourseCreate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeFailure(w, form.Fail(http.StatusInternalServerError, "Failed to create course"))
		return
	}
	writeSuccess(w)
}

// editCourse godoc
// @Summary Edit a course
// @Description Only the owner of a course may edit it. Fields left out keep their value.
// @Tags courses
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} dto.ActionResultDTO
// @Failure 400,401,403,404,500 {object} form.Failure
// @Router /courses/edit [post]
func (h *CourseHandler) editCourse(w http.ResponseWriter, r *http.Request) {
	user, fail := sessionUser(r, h.userService, h.logger)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	req, fail := form.Parse[dto.CourseEditDTO](h.parser, w, r)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	if req.ID == "" {
		writeFailure(w, form.Fail(http.StatusBadRequest, "Course ID is required"))
		return
	}

	course, fail := ownedCourse(r, h.courseService, req.ID, user, "Only the course owner can edit the course for now")
	if fail != nil {
		writeFailure(w, fail)
		return
	}

	err := h.courseService.UpdateCourse(r.Context(), model.CourseUpdate{
		ID:          course.ID,
		Name:        &req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("course_id", course.ID).Msg("Failed to update course")
		writeFailure(w, form.Fail(http.StatusInternalServerError, "Failed to update course"))
		return
	}
	h.logger.Debug().Str("course_id", course.ID).Msg("Updated course")
	writeSuccess(w)
}

// removeCourse godoc
// @Summary Delete a course
// @Description Only the owner of a course may delete it. Its resources are deleted with it.
// @Tags courses
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id formData string true "Course ID"
// @Success 200 {object} dto.ActionResultDTO
// @Failure 400,401,403,404,500 {object} form.Failure
// @Router /courses/remove [post]
func (h *CourseHandler) removeCourse(w http.ResponseWriter, r *http.Request) {
	user, fail := sessionUser(r, h.userService, h.logger)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	req, fail := form.Parse[dto.CourseRemoveDTO](h.parser, w, r)
	if fail != nil {
		writeFailure(w, fail)
		return
	}

	course, fail := ownedCourse(r, h.courseService, req.ID, user, "Only the course owner can delete the course")
	if fail != nil {
		writeFailure(w, fail)
		return
	}

	if err := h.courseService.DeleteCourse(r.Context(), course.ID); err != nil {
		h.logger.Warn().Err(err).Str("course_id", course.ID).Msg("Failed to delete course")
		writeFailure(w, form.Fail(http.StatusInternalServerError, "Failed to delete course"))
		return
	}
	writeSuccess(w)
}

// ownedCourse loads a course the user is about to change, failing with forbidden as the
// message when they do not own it.
func ownedCourse(r *http.Request, courses service.CourseService, id string, user *model.User, forbidden string) (*model.CourseDetail, *form.Failure) {
	course, err := courses.GetCourse(r.Context(), id, user.ID)
	if errors.Is(err, service.ErrCourseNotFound) {
		return nil, form.Fail(http.StatusNotFound, "Course not found")
	}
	if err != nil {
		return nil, form.Fail(http.StatusInternalServerError, "Failed to load course")
	}
	if course.UserID != user.ID {
		return nil, form.Fail(http.StatusForbidden, forbidden)
	}
	return course, nil
}
