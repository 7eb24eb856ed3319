package models

import "time"

// Student represents a registered learner. The primary key is the subject id
// asserted by the identity provider, so a student can only ever act on the
// row matching their own token.
type Student struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`

	// Personal fields arrive pre-encrypted from the client and are stored
	// as opaque text. No cipher is applied or assumed server-side.
	ICNumber         *string `db:"ic_number" json:"icNumber,omitempty"`
	PhoneNumber      *string `db:"phone_number" json:"phoneNumber,omitempty"`
	Address          *string `db:"address" json:"address,omitempty"`
	EmergencyContact *string `db:"emergency_contact" json:"emergencyContact,omitempty"`

	DateOfBirth    *string `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	Program        *string `db:"program" json:"program,omitempty"`
	EnrollmentYear *int    `db:"enrollment_year" json:"enrollmentYear,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
