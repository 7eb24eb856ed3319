package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
)

// Enrollment links one student to one course. The id is deterministic
// (studentID_courseID) so at most one record can exist per pair; dropping
// flips the status instead of deleting, keeping history.
type Enrollment struct {
	ID        string `db:"id" json:"id"`
	StudentID string `db:"student_id" json:"studentId"`
	CourseID  string `db:"course_id" json:"courseId"`
	// Snapshot of the course at enroll time.
	CourseName string           `db:"course_name" json:"courseName"`
	CourseCode string           `db:"course_code" json:"courseCode"`
	Status     EnrollmentStatus `db:"status" json:"status"`
	EnrolledAt time.Time        `db:"enrolled_at" json:"enrolledAt"`
	DroppedAt  *time.Time       `db:"dropped_at" json:"droppedAt,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updatedAt"`
}

// EnrollmentID derives the deterministic record id for a pair.
func EnrollmentID(studentID, courseID string) string {
	return studentID + "_" + courseID
}
