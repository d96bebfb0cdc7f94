package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Admission Enquiry API",
        "description": "Tracks university admission enquiries, counsellor allocation and campus visits.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Account login"},
        {"name": "Courses", "description": "Course catalog"},
        {"name": "Enquiries", "description": "Enquiry lifecycle"},
        {"name": "Visits", "description": "Campus visit pipeline"},
        {"name": "Counsellors", "description": "Counsellor roster and availability"},
        {"name": "Users", "description": "Account management"},
        {"name": "Dashboard", "description": "Admin aggregates"},
        {"name": "Insights", "description": "AI advisory text"},
        {"name": "Exports", "description": "Enquiry register exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and obtain an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses offered by the university",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enquiries": {
            "get": {
                "tags": ["Enquiries"],
                "summary": "List enquiries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "counsellorId", "in": "query", "type": "string"},
                    {"name": "courseId", "in": "query", "type": "string"},
                    {"name": "visitQueue", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enquiries"],
                "summary": "Submit a new admission enquiry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitEnquiryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/enquiries/{id}": {
            "get": {
                "tags": ["Enquiries"],
                "summary": "Fetch a single enquiry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/enquiries/{id}/session/start": {
            "post": {
                "tags": ["Enquiries"],
                "summary": "Start the counselling session for an assigned enquiry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Enquiry is not in the ASSIGNED state"}
                }
            }
        },
        "/enquiries/{id}/session/complete": {
            "post": {
                "tags": ["Enquiries"],
                "summary": "Complete an ongoing counselling session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Enquiry is not in the ONGOING state"}
                }
            }
        },
        "/enquiries/{id}/visit/request": {
            "post": {
                "tags": ["Visits"],
                "summary": "Request a campus visit after a completed session",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Visit already requested"}
                }
            }
        },
        "/enquiries/{id}/visit/complete": {
            "post": {
                "tags": ["Visits"],
                "summary": "Mark a requested campus visit as completed",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No pending visit request"}
                }
            }
        },
        "/counsellors": {
            "get": {
                "tags": ["Counsellors"],
                "summary": "List counsellors with availability",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/counsellors/{id}": {
            "get": {
                "tags": ["Counsellors"],
                "summary": "Fetch a single counsellor",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/counsellors/{id}/availability/toggle": {
            "post": {
                "tags": ["Counsellors"],
                "summary": "Toggle a counsellor's availability",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Counsellor holds an active enquiry"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List user accounts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/upgrade": {
            "post": {
                "tags": ["Users"],
                "summary": "Upgrade a user account to the admin role",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpgradeUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Admin dashboard summary",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/insights/trends": {
            "get": {
                "tags": ["Insights"],
                "summary": "Summarize enquiry trends",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/insights/talking-points": {
            "get": {
                "tags": ["Insights"],
                "summary": "Suggest counselling talking points for a course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown course"}
                }
            }
        },
        "/exports/enquiries": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export the enquiry register",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "SubmitEnquiryRequest": {
            "type": "object",
            "properties": {
                "student_name": {"type": "string"},
                "parent_name": {"type": "string"},
                "last_school_attended": {"type": "string"},
                "address": {"type": "string"},
                "state": {"type": "string"},
                "pincode": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "course_id": {"type": "string"},
                "category": {"type": "string", "enum": ["GEN", "OBC", "SC/ST", "OTHER"]},
                "marks_12th": {"type": "string"},
                "grad_marks": {"type": "string"}
            },
            "required": ["student_name", "parent_name", "last_school_attended", "address", "state", "pincode", "phone", "email", "course_id", "category", "marks_12th"]
        },
        "UpgradeUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            },
            "required": ["email"]
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
