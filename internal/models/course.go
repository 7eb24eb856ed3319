package models

import "time"

// Course is a catalog entry. Seat accounting lives on the row itself:
// enrolled_count is only ever moved by the enrollment workflow, inside the
// same transaction that writes the enrollment record.
type Course struct {
	ID            string    `db:"id" json:"id"`
	Code          string    `db:"code" json:"code"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	Credits       int       `db:"credits" json:"credits"`
	Capacity      int       `db:"capacity" json:"capacity"`
	EnrolledCount int       `db:"enrolled_count" json:"enrolledCount"`
	Instructor    string    `db:"instructor" json:"instructor"`
	Schedule      string    `db:"schedule" json:"schedule"`
	Semester      string    `db:"semester" json:"semester"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`

	// AvailableSlots is computed at read time (capacity - enrolled_count)
	// and never stored.
	AvailableSlots int `db:"available_slots" json:"availableSlots"`
}
