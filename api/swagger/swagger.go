package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Enrollment API",
        "description": "Student course-enrollment backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Registration and self-service profile"},
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Enrollments", "description": "Enroll and drop workflow"},
        {"name": "Operations", "description": "Operational bootstrap"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/register": {
            "post": {
                "tags": ["Students"],
                "summary": "Register a new student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Missing required fields", "schema": {"$ref": "#/definitions/APIError"}},
                    "409": {"description": "Already registered", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get own student record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Student"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update own student record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List all courses",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get course details",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Course"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/enrollments/enroll": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll the caller in a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Missing courseId or course full", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Student or course not found", "schema": {"$ref": "#/definitions/APIError"}},
                    "409": {"description": "Already enrolled", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/enrollments/student/{studentId}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List the caller's active enrollments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/enrollments/{id}": {
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Drop a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/seed-courses": {
            "post": {
                "tags": ["Operations"],
                "summary": "Seed the course catalog with sample data",
                "responses": {
                    "200": {"description": "Seeded"},
                    "400": {"description": "Catalog not empty", "schema": {"$ref": "#/definitions/APIError"}},
                    "405": {"description": "Method not allowed"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "RegisterStudentRequest": {
            "type": "object",
            "required": ["uid", "email", "name"],
            "properties": {
                "uid": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "icNumber": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "address": {"type": "string"},
                "emergencyContact": {"type": "string"},
                "dateOfBirth": {"type": "string"},
                "program": {"type": "string"},
                "enrollmentYear": {"type": "integer"}
            }
        },
        "UpdateStudentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "icNumber": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "address": {"type": "string"},
                "emergencyContact": {"type": "string"},
                "dateOfBirth": {"type": "string"},
                "program": {"type": "string"},
                "enrollmentYear": {"type": "integer"}
            }
        },
        "EnrollRequest": {
            "type": "object",
            "required": ["courseId"],
            "properties": {
                "courseId": {"type": "string"}
            }
        },
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "program": {"type": "string"},
                "enrollmentYear": {"type": "integer"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "code": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "credits": {"type": "integer"},
                "capacity": {"type": "integer"},
                "enrolledCount": {"type": "integer"},
                "availableSlots": {"type": "integer"},
                "instructor": {"type": "string"},
                "schedule": {"type": "string"},
                "semester": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
