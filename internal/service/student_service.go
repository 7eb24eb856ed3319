package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/enroll-api/internal/models"
	appErrors "github.com/campushq/enroll-api/pkg/errors"
)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

// RegisterStudentRequest is the public registration payload. The uid is the
// identity-provider subject of the caller, passed explicitly because
// registration happens before the first authenticated request.
type RegisterStudentRequest struct {
	UID   string `json:"uid" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`

	ICNumber         *string `json:"icNumber"`
	PhoneNumber      *string `json:"phoneNumber"`
	Address          *string `json:"address"`
	EmergencyContact *string `json:"emergencyContact"`
	DateOfBirth      *string `json:"dateOfBirth"`
	Program          *string `json:"program"`
	EnrollmentYear   *int    `json:"enrollmentYear"`
}

// UpdateStudentRequest is the self-service profile patch. Email is accepted
// in the payload but always discarded: address changes go through the
// identity provider.
type UpdateStudentRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`

	ICNumber         *string `json:"icNumber"`
	PhoneNumber      *string `json:"phoneNumber"`
	Address          *string `json:"address"`
	EmergencyContact *string `json:"emergencyContact"`
	DateOfBirth      *string `json:"dateOfBirth"`
	Program          *string `json:"program"`
	EnrollmentYear   *int    `json:"enrollmentYear"`
}

// StudentService owns student registration and self-service access. Every
// operation except registration is keyed on the verified caller subject.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// Register creates the student record at the caller's subject id. A second
// registration for the same subject conflicts and leaves the original intact.
func (s *StudentService) Register(ctx context.Context, req RegisterStudentRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing required fields: uid, email, name")
	}

	if _, err := s.repo.FindByID(ctx, req.UID); err == nil {
		return "", appErrors.Clone(appErrors.ErrConflict, "Student already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to register student")
	}

	student := &models.Student{
		ID:               req.UID,
		Email:            req.Email,
		Name:             req.Name,
		ICNumber:         req.ICNumber,
		PhoneNumber:      req.PhoneNumber,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		DateOfBirth:      req.DateOfBirth,
		Program:          req.Program,
		EnrollmentYear:   req.EnrollmentYear,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to register student")
	}

	s.logger.Info("student registered", zap.String("student_id", req.UID))
	return req.UID, nil
}

// Get returns the caller's own record.
func (s *StudentService) Get(ctx context.Context, subjectID, requestedID string) (*models.Student, error) {
	if subjectID != requestedID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Forbidden - Cannot access other student's data")
	}

	student, err := s.repo.FindByID(ctx, requestedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch student details")
	}
	return student, nil
}

// Update merges the patch into the caller's own record, discarding any email
// change, and refreshes the update timestamp.
func (s *StudentService) Update(ctx context.Context, subjectID, requestedID string, req UpdateStudentRequest) error {
	if subjectID != requestedID {
		return appErrors.Clone(appErrors.ErrForbidden, "Forbidden - Cannot update other student's data")
	}

	if _, err := s.repo.FindByID(ctx, requestedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to update student")
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.ICNumber != nil {
		fields["ic_number"] = *req.ICNumber
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = *req.PhoneNumber
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.EmergencyContact != nil {
		fields["emergency_contact"] = *req.EmergencyContact
	}
	if req.DateOfBirth != nil {
		fields["date_of_birth"] = *req.DateOfBirth
	}
	if req.Program != nil {
		fields["program"] = *req.Program
	}
	if req.EnrollmentYear != nil {
		fields["enrollment_year"] = *req.EnrollmentYear
	}

	if err := s.repo.Update(ctx, requestedID, fields); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to update student")
	}
	return nil
}
