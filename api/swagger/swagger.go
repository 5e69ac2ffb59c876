package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Attendease API",
        "description": "QR-based attendance tracking backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Accounts", "description": "Teacher and student registration and login"},
        {"name": "Subjects", "description": "Per-teacher subject registry"},
        {"name": "Sessions", "description": "Attendance sessions and QR codes"},
        {"name": "Attendance", "description": "Student attendance marking"},
        {"name": "Reports", "description": "Teacher records and student history"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Healthy"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/register/teacher": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Register teacher account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterTeacherRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/register/student": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Register student account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/login": {
            "post": {
                "tags": ["Accounts"],
                "summary": "Authenticate account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/teacher/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List teacher subjects",
                "parameters": [
                    {"name": "teacher_id", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Add subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/teacher/generate-qr": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Start attendance session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Teacher or subject not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/student/mark-attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAttendanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "Marked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid code or duplicate mark", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Session not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/teacher/attendance-records": {
            "get": {
                "tags": ["Reports"],
                "summary": "Teacher attendance records",
                "parameters": [
                    {"name": "teacher_id", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/teacher/attendance-records/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export session roster",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "teacher_id", "in": "query", "type": "string", "required": true},
                    {"name": "session_id", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered roster"},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/student/attendance-history": {
            "get": {
                "tags": ["Reports"],
                "summary": "Student attendance history",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterTeacherRequest": {
            "type": "object",
            "required": ["fullname", "email", "password", "department", "emp_id"],
            "properties": {
                "fullname": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "department": {"type": "string"},
                "emp_id": {"type": "string"}
            }
        },
        "RegisterStudentRequest": {
            "type": "object",
            "required": ["fullname", "email", "password", "roll_no", "course", "year", "section"],
            "properties": {
                "fullname": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "roll_no": {"type": "string"},
                "course": {"type": "string"},
                "year": {"type": "string"},
                "section": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["type", "email", "password"],
            "properties": {
                "type": {"type": "string", "enum": ["teacher", "student"]},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "AddSubjectRequest": {
            "type": "object",
            "required": ["teacher_id", "name"],
            "properties": {
                "teacher_id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "CreateSessionRequest": {
            "type": "object",
            "required": ["teacher_id", "subject_id", "class_section"],
            "properties": {
                "teacher_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "class_section": {"type": "string"}
            }
        },
        "MarkAttendanceRequest": {
            "type": "object",
            "required": ["qr_data", "student_id"],
            "properties": {
                "qr_data": {"type": "string"},
                "student_id": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"}
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
