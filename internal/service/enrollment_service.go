package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/campushq/enroll-api/internal/models"
	"github.com/campushq/enroll-api/internal/repository"
	appErrors "github.com/campushq/enroll-api/pkg/errors"
)

type enrollmentRepository interface {
	Enroll(ctx context.Context, studentID, courseID string) (string, error)
	Drop(ctx context.Context, id, studentID string) error
	ListActiveByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

// EnrollmentService orchestrates the enroll and drop workflows. The
// repository applies each workflow as one conditional transaction; this layer
// adds the registration precondition, ownership rules and error mapping.
type EnrollmentService struct {
	repo     enrollmentRepository
	students studentReader
	catalog  catalogInvalidator
	logger   *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService. catalog may be nil.
func NewEnrollmentService(repo enrollmentRepository, students studentReader, catalog catalogInvalidator, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, students: students, catalog: catalog, logger: logger}
}

// Enroll registers the caller on a course and returns the enrollment id.
func (s *EnrollmentService) Enroll(ctx context.Context, subjectID, courseID string) (string, error) {
	if courseID == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "Missing required fields: courseId")
	}

	if _, err := s.students.FindByID(ctx, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "Student not found. Please complete registration first.")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to enroll in course")
	}

	id, err := s.repo.Enroll(ctx, subjectID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCourseNotFound):
			return "", appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		case errors.Is(err, repository.ErrCourseFull):
			return "", appErrors.Clone(appErrors.ErrValidation, "Course is full")
		case errors.Is(err, repository.ErrAlreadyEnrolled):
			return "", appErrors.Clone(appErrors.ErrConflict, "Already enrolled in this course")
		default:
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to enroll in course")
		}
	}

	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}
	s.logger.Info("student enrolled", zap.String("student_id", subjectID), zap.String("course_id", courseID))
	return id, nil
}

// Drop marks the caller's enrollment dropped and releases the seat.
func (s *EnrollmentService) Drop(ctx context.Context, subjectID, enrollmentID string) error {
	if err := s.repo.Drop(ctx, enrollmentID, subjectID); err != nil {
		switch {
		case errors.Is(err, repository.ErrEnrollmentNotFound):
			return appErrors.Clone(appErrors.ErrNotFound, "Enrollment not found")
		case errors.Is(err, repository.ErrNotOwner):
			return appErrors.Clone(appErrors.ErrForbidden, "Forbidden - Cannot drop other student's enrollment")
		case errors.Is(err, repository.ErrNotActive):
			return appErrors.Clone(appErrors.ErrValidation, "Enrollment is not active")
		default:
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to drop course")
		}
	}

	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}
	s.logger.Info("enrollment dropped", zap.String("student_id", subjectID), zap.String("enrollment_id", enrollmentID))
	return nil
}

// ListForStudent returns the caller's active enrollments.
func (s *EnrollmentService) ListForStudent(ctx context.Context, subjectID, requestedID string) ([]models.Enrollment, error) {
	if subjectID != requestedID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Forbidden - Cannot access other student's enrollments")
	}

	enrollments, err := s.repo.ListActiveByStudent(ctx, requestedID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch enrollments")
	}
	return enrollments, nil
}
