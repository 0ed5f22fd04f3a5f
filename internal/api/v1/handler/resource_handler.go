package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"arcronym/internal/api/v1/dto"
	"arcronym/internal/api/v1/form"
	"arcronym/internal/model"
	"arcronym/internal/service"

	"github.com/rs/zerolog"
)

// ResourceHandler handles the resources of a course page
type ResourceHandler struct {
	resourceService service.ResourceService
	courseService   service.CourseService
	userService     service.UserService
	parser          *form.Parser
	logger          zerolog.Logger
	now             func() time.Time
}

func NewResourceHandler(
	resourceService service.ResourceService,
	courseService service.CourseService,
	userService service.UserService,
	parser *form.Parser,
	logger zerolog.Logger,
) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		courseService:   courseService,
		userService:     userService,
		parser:          parser,
		logger:          logger.With().Str("handler", "ResourceHandler").Logger(),
		now:             time.Now,
	}
}

// RegisterRoutes mounts resource routes
func (h *ResourceHandler) RegisterRoutes(mux *http.ServeMux, sessionMw func(http.Handler) http.Handler) {
	mux.Handle("GET /resources/{id}", sessionMw(http.HandlerFunc(h.getResource)))
	mux.Handle("POST /courses/{courseId}/resources/add", sessionMw(http.HandlerFunc(h.addResource)))
	mux.Handle("POST /courses/{courseId}/resources/upload", sessionMw(http.HandlerFunc(h.uploadResource)))
	mux.Handle("POST /resources/remove", sessionMw(http.HandlerFunc(h.removeResource)))
	mux.Handle("POST /resources/update", sessionMw(http.HandlerFunc(h.updatePlainText)))
}

// getResource godoc
// @Summary Get a resource
// @Description Returns a resource with its classification and, for uploaded files, where to fetch it.
// @Tags resources
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} dto.ResourceResponseDTO
// @Failure 404 {string} string "Resource not found"
// @Router /resources/{id} [get]
func (h *ResourceHandler) getResource(w http.ResponseWriter, r *http.Request) {
	user := pageUser(w, r, h.userService)
	if user == nil {
		return
	}
	res, err := h.resourceService.GetResource(r.Context(), r.PathValue("id"))
	if errors.Is(err, service.ErrResourceNotFound) {
		http.Error(w, "Resource not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to retrieve resource", http.StatusInternalServerError)
		return
	}
	course, err := h.courseService.GetCourse(r.Context(), res.CourseID, user.ID)
	if err != nil || !canView(course, user) {
		http.Error(w, "Resource not found", http.StatusNotFound)
		return
	}

	resp := dto.ResourceResponseDTO{Resource: *res, Info: model.ResourceInfoFor(res.Type)}
	if !res.HasLiteralContent() {
		resp.URL = h.resourceService.ResourceURL(res.Content)
	}
	writeJSON(w, http.StatusOK, resp)
}

// addResource godoc
// @Summary Add a text resource
// @Description Adds a plain text, markdown or link resource to a course the caller owns.
// @Tags resources
// @Accept x-www-form-urlencoded
// @Produce json
// @Param courseId path string true "Course ID"
// @Param name formData string true "Resource name"
// @Param type formData string true "text/plain, text/markdown or text/x-uri"
// @Param content formData string false "Resource text"
// @Success 200 {object} dto.ActionResultDTO
// @Failure 400,401,403,404,500 {object} form.Failure
// @Router /courses/{courseId}/resources/add [post]
func (h *ResourceHandler) addResource(w http.ResponseWriter, r *http.Request) {
	user, fail := sessionUser(r, h.userService, h.logger)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	req, fail := form.Parse[dto.ResourceAddDTO](h.parser, w, r)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	course, fail := ownedCourse(r, h.courseService, r.PathValue("courseId"), user, "Only the course owner can add resources")
	if fail != nil {
		writeFailure(w, fail)
		return
	}

	err := h.resourceService.CreateResource(r.Context(), &model.Resource{
		CourseID: course.ID,
		UserID:   user.ID,
		Name:     req.Name,
		Type:     req.Type,
		Content:  req.Content,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("course_id", course.ID).Msg("Failed to create resource")
		writeFailure(w, form.Fail(http.StatusInternalServerError, "Failed to create resource"))
		return
	}
	writeSuccess(w)
}

// uploadResource godoc
// @Summary Upload a file resource
// @Description Short text files become text resources; other files are stored by content hash.
// @Tags resources
// @Accept multipart/form-data
// @Produce json
// @Param courseId path string true "Course ID"
// @Param file formData file true "File to upload"
// @Success 200 {object} dto.ActionResultDTO
// @Failure 400,401,403,404,413,500 {object} form.Failure
// @Router /courses/{courseId}/resources/upload [post]
func (h *ResourceHandler) uploadResource(w http.ResponseWriter, r *http.Request) {
	user, fail := sessionUser(r, h.userService, h.logger)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	file, header, fail := h.parser.File(w, r, dto.UploadFileField)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	defer file.Close()

	course, fail := ownedCourse(r, h.courseService, r.PathValue("courseId"), user, "Only the course owner can add resources")
	if fail != nil {
		writeFailure(w, fail)
		return
	}

	body, err := io.ReadAll(io.LimitReader(file, form.MaxUploadSize+1))
	if err != nil {
		writeFailure(w, form.Fail(http.StatusBadRequest, "Failed to read file"))
		return
	}
	if len(body) > form.MaxUploadSize {
		writeFailure(w, form.Fail(http.StatusRequestEntityTooLarge, "File is too large"))
		return
	}

	_, err = h.resourceService.UploadResource(r.Context(), service.UploadInput{
		UserID:      user.ID,
		CourseID:    course.ID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        body,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("course_id", course.ID).Msg("Failed to upload resource")
		writeFailure(w, form.Fail(http.StatusInternalServerError, "Failed to upload resource"))
		return
	}
	writeSuccess(w)
}

// removeResource godoc
// @Summary Remove a resource
// @Tags resources
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id formData string true "Resource ID"
// @Success 200 {object} dto.ActionResultDTO
// @Failure 400,401,403,404,500 {object} form.Failure
// @Router /resources/remove [post]
func (h *ResourceHandler) removeResource(w http.ResponseWriter, r *http.Request) {
	user, fail := sessionUser(r, h.userService, h.logger)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	req, fail := form.Parse[dto.ResourceRemoveDTO](h.parser, w, r)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	res, fail := h.ownedResource(r, req.ID, user, "Only the course owner can remove resources")
	if fail != nil {
		writeFailure(w, fail)
		return
	}

	if err := h.resourceService.DeleteResource(r.Context(), res.ID); err != nil {
		h.logger.Warn().Err(err).Str("resource_id", res.ID).Msg("Failed to delete resource")
		writeFailure(w, form.Fail(http.StatusInternalServerError, "Failed to delete resource"))
		return
	}
	writeSuccess(w)
}

// updatePlainText godoc
// @Summary Replace the text of a resource
// @Description Uploaded files cannot be edited.
// @Tags resources
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id formData string true "Resource ID"
// @Param content formData string true "New text"
// @Success 200 {object} dto.ActionResultDTO
// @Failure 400,401,403,404,500 {object} form.Failure
// @Router /resources/update [post]
func (h *ResourceHandler) updatePlainText(w http.ResponseWriter, r *http.Request) {
	user, fail := sessionUser(r, h.userService, h.logger)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	req, fail := form.Parse[dto.ResourceUpdatePlainTextDTO](h.parser, w, r)
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	res, fail := h.ownedResource(r, req.ID, user, "Only the course owner can edit resources")
	if fail != nil {
		writeFailure(w, fail)
		return
	}
	// Uploaded files keep their blob hash in content.
	if !res.HasLiteralContent() {
		writeFailure(w, form.Fail(http.StatusBadRequest, "Only text resources can be edited"))
		return
	}

	modified := h.now()
	err := h.resourceService.UpdateResource(r.Context(), model.ResourceUpdate{
		ID:         res.ID,
		Content:    &req.Content,
		ModifiedAt: &modified,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("resource_id", res.ID).Msg("Failed to update resource")
		writeFailure(w, form.Fail(http.StatusInternalServerError, "Failed to update resource"))
		return
	}
	h.logger.Debug().Str("resource_id", res.ID).Msg("Updated resource")
	writeSuccess(w)
}

// ownedResource loads a resource whose course the user owns.
func (h *ResourceHandler) ownedResource(r *http.Request, id string, user *model.User, forbidden string) (*model.Resource, *form.Failure) {
	res, err := h.resourceService.GetResource(r.Context(), id)
	if errors.Is(err, service.ErrResourceNotFound) {
		return nil, form.Fail(http.StatusNotFound, "Resource not found")
	}
	if err != nil {
		return nil, form.Fail(http.StatusInternalServerError, "Failed to load resource")
	}
	if _, fail := ownedCourse(r, h.courseService, res.CourseID, user, forbidden); fail != nil {
		return nil, fail
	}
	return res, nil
}
