package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"arcronym/internal/middleware"
	"arcronym/internal/model"
	"arcronym/internal/repository/repotest"
	"arcronym/internal/service"
	"arcronym/internal/util"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "router-test-key"

func testRoutes(t *testing.T) (http.Handler, *repotest.Store) {
	t.Helper()
	store := repotest.NewStore()
	logger := zerolog.Nop()
	svc := Services{
		Courses:   service.NewCourseService(store, store, store, store, logger),
		Resources: service.NewResourceService(store, repotest.NewBlobs(), &repotest.Publisher{}, "", "https://blobs.test/", logger),
		Users:     service.NewUserService(store, logger),
		Status:    service.NewStatusService(store, store),
	}
	return Routes(svc, testKey, []string{"https://app.test"}, logger), store
}

func sessionCookie(t *testing.T, email string) *http.Cookie {
	t.Helper()
	claims := util.Claims{
		Email:          email,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: signed}
}

func TestRoutesCreateCourseWithSessionCookie(t *testing.T) {
	h, store := testRoutes(t)
	name := "U"
	u := store.AddUser(model.User{Email: "u@example.com", Name: &name})

	body := url.Values{"name": {"Algebra"}}.Encode()
	r := httptest.NewRequest(http.MethodPost, "/courses/create", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(sessionCookie(t, u.Email))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	courses, err := store.GetCoursesByUserID(r.Context(), u.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
}

func TestRoutesRejectBadSession(t *testing.T) {
	h, _ := testRoutes(t)

	r := httptest.NewRequest(http.MethodPost, "/courses/create", strings.NewReader("name=x"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutesCORS(t *testing.T) {
	h, _ := testRoutes(t)

	r := httptest.NewRequest(http.MethodGet, "/status", nil)
	r.Header.Set("Origin", "https://app.test")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.test", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodGet, "/status", nil)
	r.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
