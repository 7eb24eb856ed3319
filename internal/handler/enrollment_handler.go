package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/enroll-api/internal/middleware"
	"github.com/campushq/enroll-api/internal/models"
	appErrors "github.com/campushq/enroll-api/pkg/errors"
	"github.com/campushq/enroll-api/pkg/response"
)

type enrollmentService interface {
	Enroll(ctx context.Context, subjectID, courseID string) (string, error)
	Drop(ctx context.Context, subjectID, enrollmentID string) error
	ListForStudent(ctx context.Context, subjectID, requestedID string) ([]models.Enrollment, error)
}

// EnrollmentHandler exposes the enrollment workflow endpoints.
type EnrollmentHandler struct {
	enrollments enrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

type enrollRequest struct {
	CourseID string `json:"courseId"`
}

// Enroll godoc
// @Summary Enroll the caller in a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body enrollRequest true "Enrollment payload"
// @Success 201 {object} map[string]string
// @Router /enrollments/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing required fields: courseId"))
		return
	}

	enrollmentID, err := h.enrollments.Enroll(c.Request.Context(), middleware.CurrentSubject(c), req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"message":      "Enrolled successfully",
		"enrollmentId": enrollmentID,
	})
}

// ListByStudent godoc
// @Summary List the caller's active enrollments
// @Tags Enrollments
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} map[string][]models.Enrollment
// @Router /enrollments/student/{studentId} [get]
func (h *EnrollmentHandler) ListByStudent(c *gin.Context) {
	enrollments, err := h.enrollments.ListForStudent(c.Request.Context(), middleware.CurrentSubject(c), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	response.JSON(c, http.StatusOK, gin.H{"enrollments": enrollments})
}

// Drop godoc
// @Summary Drop a course
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} map[string]string
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	if err := h.enrollments.Drop(c.Request.Context(), middleware.CurrentSubject(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Course dropped successfully"})
}
