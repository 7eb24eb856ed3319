// Package seed holds the fixture catalog used to bootstrap an empty
// environment.
package seed

import "github.com/campushq/enroll-api/internal/models"

// Courses returns the sample catalog. Ids are assigned at insert time.
func Courses() []models.Course {
	return []models.Course{
		{
			Code:        "CS101",
			Name:        "Introduction to Computer Science",
			Description: "Fundamental concepts of programming and computational thinking.",
			Credits:     3,
			Capacity:    50,
			Instructor:  "Dr. Sarah Chen",
			Schedule:    "Mon/Wed 9:00 AM - 10:30 AM",
			Semester:    "Spring 2026",
		},
		{
			Code:        "CS201",
			Name:        "Data Structures and Algorithms",
			Description: "Study of data organization, storage, and efficient algorithms.",
			Credits:     4,
			Capacity:    40,
			Instructor:  "Prof. Michael Lee",
			Schedule:    "Tue/Thu 11:00 AM - 12:30 PM",
			Semester:    "Spring 2026",
		},
		{
			Code:        "MATH201",
			Name:        "Calculus II",
			Description: "Integral calculus, sequences, series, and applications.",
			Credits:     4,
			Capacity:    45,
			Instructor:  "Dr. Emily Watson",
			Schedule:    "Mon/Wed/Fri 10:00 AM - 11:00 AM",
			Semester:    "Spring 2026",
		},
		{
			Code:        "ENG101",
			Name:        "Academic Writing",
			Description: "Fundamentals of academic writing and research methods.",
			Credits:     3,
			Capacity:    30,
			Instructor:  "Prof. James Miller",
			Schedule:    "Tue/Thu 2:00 PM - 3:30 PM",
			Semester:    "Spring 2026",
		},
		{
			Code:        "PHYS101",
			Name:        "Physics I: Mechanics",
			Description: "Introduction to classical mechanics, motion, and forces.",
			Credits:     4,
			Capacity:    40,
			Instructor:  "Dr. Robert Kim",
			Schedule:    "Mon/Wed 1:00 PM - 2:30 PM",
			Semester:    "Spring 2026",
		},
		{
			Code:        "CS301",
			Name:        "Database Systems",
			Description: "Relational databases, SQL, and database design principles.",
			Credits:     3,
			Capacity:    35,
			Instructor:  "Dr. Lisa Park",
			Schedule:    "Tue/Thu 9:00 AM - 10:30 AM",
			Semester:    "Spring 2026",
		},
	}
}
