package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"arcronym/internal/api/v1/dto"
	"arcronym/internal/api/v1/form"
	"arcronym/internal/middleware"
	"arcronym/internal/model"
	"arcronym/internal/service"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, f *form.Failure) {
	writeJSON(w, f.Status, f)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, dto.ActionResultDTO{Success: true})
}

// sessionUser resolves the user behind the request session. Every action starts with it.
func sessionUser(r *http.Request, users service.UserService, logger zerolog.Logger) (*model.User, *form.Failure) {
	claims := middleware.SessionFromContext(r.Context())
	if claims == nil || claims.Email == "" {
		return nil, form.Fail(http.StatusUnauthorized, "You are not signed in")
	}
	user, err := users.GetByEmail(r.Context(), claims.Email)
	if errors.Is(err, service.ErrUserNotFound) {
		// A session for an unknown email means the user table and the session issuer disagree.
		return nil, form.Fail(http.StatusInternalServerError, "User does not exist")
	}
	if err != nil {
		logger.Warn().Err(err).Str("email", claims.Email).Msg("Failed to load session user")
		return nil, form.Fail(http.StatusInternalServerError, "Failed to load user")
	}
	return user, nil
}

// pageUser is sessionUser for page loads: it redirects instead of failing and makes sure the user
// has roles. It returns nil when a response has already been written.
func pageUser(w http.ResponseWriter, r *http.Request, users service.UserService) *model.User {
	claims := middleware.SessionFromContext(r.Context())
	if claims == nil || claims.Email == "" {
		http.Redirect(w, r, "/auth/signin", http.StatusTemporaryRedirect)
		return nil
	}
	user, err := users.GetByEmail(r.Context(), claims.Email)
	if errors.Is(err, service.ErrUserNotFound) {
		http.Redirect(w, r, "/auth/signin", http.StatusTemporaryRedirect)
		return nil
	}
	if err != nil {
		http.Error(w, "Failed to load user", http.StatusInternalServerError)
		return nil
	}
	if err := users.EnsureRoles(r.Context(), user); err != nil {
		http.Error(w, "Failed to load user", http.StatusInternalServerError)
		return nil
	}
	if user.Name == nil || *user.Name == "" {
		http.Redirect(w, r, "/account/name", http.StatusTemporaryRedirect)
		return nil
	}
	return user
}

// canView reports whether user may see the course page. Private courses are visible to their
// owner and to the users they are shared with.
func canView(course *model.CourseDetail, user *model.User) bool {
	return course.UserID == user.ID || course.IsShared || course.Visibility != 0
}
