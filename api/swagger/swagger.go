package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Attendance Registry API",
        "description": "Role-gated course registration and absence tracking",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Role gate"},
        {"name": "Persons", "description": "Registration and roster"},
        {"name": "Courses", "description": "Course registration gate"},
        {"name": "Attendance", "description": "Attendance ledger and absence checks"}
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
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a role secret for an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid secret"}
                }
            }
        },
        "/persons": {
            "get": {
                "tags": ["Persons"],
                "summary": "List registered persons",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Persons"],
                "summary": "Register a person into an open course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterPersonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown course"},
                    "412": {"description": "Course closed"}
                }
            }
        },
        "/persons/{name}": {
            "get": {
                "tags": ["Persons"],
                "summary": "Look up a person by name (first match)",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Persons"],
                "summary": "Overwrite a student's enrollment fields",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEnrollmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Person is not a student"}
                }
            },
            "delete": {
                "tags": ["Persons"],
                "summary": "Delete a person (teachers only)",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Permission denied"}
                }
            }
        },
        "/persons/{name}/absences": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Evaluate absences against the threshold",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "max", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/persons/{name}/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List a person's attendance facts",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Append an attendance fact (teachers only)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordAttendanceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses and their gate state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{name}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Resolve the registration gate for a course",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{name}/open": {
            "post": {
                "tags": ["Courses"],
                "summary": "Open a course for registration (teachers only)",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Permission denied"}
                }
            }
        },
        "/courses/{name}/close": {
            "post": {
                "tags": ["Courses"],
                "summary": "Close a course for registration (teachers only)",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Permission denied"}
                }
            }
        }
    },
    "definitions": {
        "Person": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "national_id": {"type": "string"},
                "role": {"type": "string", "enum": ["Student", "Teacher", "Admin"]},
                "course": {"type": "string"},
                "department": {"type": "string"},
                "section": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "AbsenceReport": {
            "type": "object",
            "properties": {
                "person_id": {"type": "integer"},
                "name": {"type": "string"},
                "absences": {"type": "integer"},
                "max_absences": {"type": "integer"},
                "within_limit": {"type": "boolean"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["Student", "Teacher", "Admin"]},
                "secret": {"type": "string"}
            },
            "required": ["role", "secret"]
        },
        "RegisterPersonRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["Student", "Teacher", "Admin"]},
                "name": {"type": "string"},
                "national_id": {"type": "string"},
                "course": {"type": "string"},
                "department": {"type": "string"},
                "section": {"type": "string"}
            },
            "required": ["role", "name", "national_id", "course"]
        },
        "UpdateEnrollmentRequest": {
            "type": "object",
            "properties": {
                "course": {"type": "string"},
                "department": {"type": "string"},
                "section": {"type": "string"}
            }
        },
        "RecordAttendanceRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "date": {"type": "string"},
                "present": {"type": "boolean"}
            },
            "required": ["name", "date", "present"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
