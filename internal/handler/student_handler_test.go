package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/enroll-api/internal/middleware"
	"github.com/campushq/enroll-api/internal/models"
	"github.com/campushq/enroll-api/internal/service"
	appErrors "github.com/campushq/enroll-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asSubject attaches verified claims the way the auth gate does.
func asSubject(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{
			UID:              uid,
			RegisteredClaims: jwt.RegisteredClaims{Subject: uid},
		})
		c.Next()
	}
}

func performJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type mockStudentService struct {
	registerID  string
	registerErr error
	student     *models.Student
	getErr      error
	updateErr   error
	lastUpdate  service.UpdateStudentRequest
}

func (m *mockStudentService) Register(ctx context.Context, req service.RegisterStudentRequest) (string, error) {
	return m.registerID, m.registerErr
}

func (m *mockStudentService) Get(ctx context.Context, subjectID, requestedID string) (*models.Student, error) {
	return m.student, m.getErr
}

func (m *mockStudentService) Update(ctx context.Context, subjectID, requestedID string, req service.UpdateStudentRequest) error {
	m.lastUpdate = req
	return m.updateErr
}

func TestStudentHandlerRegister(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{registerID: "uid-1"})
	router := gin.New()
	router.POST("/register", h.Register)

	w := performJSON(router, http.MethodPost, "/register", gin.H{
		"uid":   "uid-1",
		"email": "s@example.com",
		"name":  "Siti",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Student registered successfully", body["message"])
	assert.Equal(t, "uid-1", body["studentId"])
}

func TestStudentHandlerRegisterConflict(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{
		registerErr: appErrors.Clone(appErrors.ErrConflict, "Student already registered"),
	})
	router := gin.New()
	router.POST("/register", h.Register)

	w := performJSON(router, http.MethodPost, "/register", gin.H{
		"uid":   "uid-1",
		"email": "s@example.com",
		"name":  "Siti",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Student already registered", decodeBody(t, w)["error"])
}

func TestStudentHandlerGet(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{
		student: &models.Student{ID: "uid-1", Email: "s@example.com", Name: "Siti"},
	})
	router := gin.New()
	router.GET("/students/:id", asSubject("uid-1"), h.Get)

	w := performJSON(router, http.MethodGet, "/students/uid-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "uid-1", body["id"])
	assert.Equal(t, "s@example.com", body["email"])
}

func TestStudentHandlerGetForbidden(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{
		getErr: appErrors.Clone(appErrors.ErrForbidden, "Forbidden - Cannot access other student's data"),
	})
	router := gin.New()
	router.GET("/students/:id", asSubject("uid-1"), h.Get)

	w := performJSON(router, http.MethodGet, "/students/uid-2", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden - Cannot access other student's data", decodeBody(t, w)["error"])
}

func TestStudentHandlerUpdate(t *testing.T) {
	svc := &mockStudentService{}
	h := NewStudentHandler(svc)
	router := gin.New()
	router.PUT("/students/:id", asSubject("uid-1"), h.Update)

	w := performJSON(router, http.MethodPut, "/students/uid-1", gin.H{
		"name":    "Siti Binti",
		"program": "SE",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Student updated successfully", decodeBody(t, w)["message"])
	require.NotNil(t, svc.lastUpdate.Name)
	assert.Equal(t, "Siti Binti", *svc.lastUpdate.Name)
}
