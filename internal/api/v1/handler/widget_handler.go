package handler

import (
	"bytes"
	"errors"
	"net/http"

	"arcronym/internal/service"
	"arcronym/internal/widget"

	"github.com/rs/zerolog"
)

// WidgetHandler serves the resource widget of a course page
type WidgetHandler struct {
	courseService service.CourseService
	userService   service.UserService
	renderer      *widget.Renderer
	logger        zerolog.Logger
}

func NewWidgetHandler(
	courseService service.CourseService,
	userService service.UserService,
	renderer *widget.Renderer,
	logger zerolog.Logger,
) *WidgetHandler {
	return &WidgetHandler{
		courseService: courseService,
		userService:   userService,
		renderer:      renderer,
		logger:        logger.With().Str("handler", "WidgetHandler").Logger(),
	}
}

func (h *WidgetHandler) RegisterRoutes(mux *http.ServeMux, sessionMw func(http.Handler) http.Handler) {
	mux.Handle("GET /courses/{id}/widget", sessionMw(http.HandlerFunc(h.getWidget)))
}

// getWidget godoc
// @Summary Render the resource widget of a course
// @Description The resource named by the selected query parameter is shown in the detail pane.
// @Tags courses
// @Produce html
// @Param id path string true "Course ID"
// @Param selected query string false "Resource ID"
// @Success 200 {string} string "HTML fragment"
// @Failure 404 {string} string "Course not found"
// @Router /courses/{id}/widget [get]
func (h *WidgetHandler) getWidget(w http.ResponseWriter, r *http.Request) {
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

	list := widget.NewList(widget.NewSelectionController())
	for _, res := range course.Resources {
		if _, err := list.AddResource(res, h.renderer); err != nil {
			// Skip what cannot be shown.
			h.logger.Warn().Err(err).Str("resource_id", res.ID).Msg("Skipping resource in widget")
		}
	}
	if selected := r.URL.Query().Get("selected"); selected != "" {
		list.Select(widget.ResourceItemID(selected))
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, list); err != nil {
		h.logger.Error().Err(err).Str("course_id", course.ID).Msg("Failed to render widget")
		http.Error(w, "Failed to render widget", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
