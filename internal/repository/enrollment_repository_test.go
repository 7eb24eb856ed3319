package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/campushq/enroll-api/internal/models"
)

func TestEnrollmentRepositoryEnrollCreatesRecordAndIncrementsCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, code, capacity, enrolled_count FROM courses WHERE id = $1 FOR UPDATE")).
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "code", "capacity", "enrolled_count"}).
			AddRow("Intro", "CS101", 50, 12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM enrollments WHERE id = $1 FOR UPDATE")).
		WithArgs("stu-1_course-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs("stu-1_course-1", "stu-1", "course-1", "Intro", "CS101", models.EnrollmentStatusEnrolled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET enrolled_count = enrolled_count + 1, updated_at = NOW() WHERE id = $1")).
		WithArgs("course-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := repo.Enroll(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)
	require.Equal(t, "stu-1_course-1", id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollCourseMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, code, capacity, enrolled_count FROM courses").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Enroll(context.Background(), "stu-1", "ghost")
	require.True(t, errors.Is(err, ErrCourseNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollCourseFull(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, code, capacity, enrolled_count FROM courses").
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "code", "capacity", "enrolled_count"}).
			AddRow("Intro", "CS101", 40, 40))
	mock.ExpectRollback()

	_, err := repo.Enroll(context.Background(), "stu-1", "course-1")
	require.True(t, errors.Is(err, ErrCourseFull))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, code, capacity, enrolled_count FROM courses").
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "code", "capacity", "enrolled_count"}).
			AddRow("Intro", "CS101", 50, 12))
	mock.ExpectQuery("SELECT status FROM enrollments").
		WithArgs("stu-1_course-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.EnrollmentStatusEnrolled))
	mock.ExpectRollback()

	_, err := repo.Enroll(context.Background(), "stu-1", "course-1")
	require.True(t, errors.Is(err, ErrAlreadyEnrolled))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollReusesDroppedRecord(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name, code, capacity, enrolled_count FROM courses").
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "code", "capacity", "enrolled_count"}).
			AddRow("Intro", "CS101", 50, 12))
	mock.ExpectQuery("SELECT status FROM enrollments").
		WithArgs("stu-1_course-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.EnrollmentStatusDropped))
	mock.ExpectExec("UPDATE enrollments").
		WithArgs("stu-1_course-1", models.EnrollmentStatusEnrolled, "Intro", "CS101").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET enrolled_count = enrolled_count + 1")).
		WithArgs("course-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := repo.Enroll(context.Background(), "stu-1", "course-1")
	require.NoError(t, err)
	require.Equal(t, "stu-1_course-1", id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDropMarksAndDecrements(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, course_id, status FROM enrollments WHERE id = $1 FOR UPDATE")).
		WithArgs("stu-1_course-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "course_id", "status"}).
			AddRow("stu-1", "course-1", models.EnrollmentStatusEnrolled))
	mock.ExpectExec("UPDATE enrollments").
		WithArgs("stu-1_course-1", models.EnrollmentStatusDropped).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET enrolled_count = enrolled_count - 1")).
		WithArgs("course-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Drop(context.Background(), "stu-1_course-1", "stu-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDropRejectsForeignEnrollment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT student_id, course_id, status FROM enrollments").
		WithArgs("stu-1_course-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "course_id", "status"}).
			AddRow("stu-1", "course-1", models.EnrollmentStatusEnrolled))
	mock.ExpectRollback()

	err := repo.Drop(context.Background(), "stu-1_course-1", "intruder")
	require.True(t, errors.Is(err, ErrNotOwner))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDropMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT student_id, course_id, status FROM enrollments").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Drop(context.Background(), "ghost", "stu-1")
	require.True(t, errors.Is(err, ErrEnrollmentNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListActiveByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "course_name", "course_code",
		"status", "enrolled_at", "dropped_at", "created_at", "updated_at"}).
		AddRow("stu-1_course-1", "stu-1", "course-1", "Intro", "CS101",
			models.EnrollmentStatusEnrolled, now, nil, now, now)
	mock.ExpectQuery("SELECT id, student_id, course_id, course_name, course_code").
		WithArgs("stu-1", models.EnrollmentStatusEnrolled).
		WillReturnRows(rows)

	enrollments, err := repo.ListActiveByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	require.Equal(t, models.EnrollmentStatusEnrolled, enrollments[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
