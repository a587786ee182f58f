package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Events API",
        "description": "Event listing, enrollment and ticketing for the campus events portal",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "Session": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "tags": [
        {"name": "Authentication", "description": "Sessions and email sign-in"},
        {"name": "Events", "description": "Event catalog and filters"},
        {"name": "Enrollments", "description": "The caller's enrollment set"},
        {"name": "Tickets", "description": "Entry ticket checks"}
    ],
    "paths": {
        "/sessions": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Start an anonymous session",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign in with an email address",
                "security": [{"Session": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid email", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign out, keeping the session",
                "security": [{"Session": []}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Signed-in identity",
                "security": [{"Session": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not signed in", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/filters/options": {
            "get": {
                "tags": ["Events"],
                "summary": "Selectable filter values",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events",
                "parameters": [
                    {"name": "filter", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "category", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "audience", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "timeRange", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown filter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Create event (staff)",
                "security": [{"Session": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Event detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Events"],
                "summary": "Update event (staff)",
                "security": [{"Session": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEventRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Events"],
                "summary": "Delete event (staff)",
                "security": [{"Session": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/events/{id}/enrollment": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll in an event",
                "security": [{"Session": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "200": {"description": "Already enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Enrolled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "LOGIN_REQUIRED", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "ENROLLMENT_REFUSED", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "EVENT_FULL", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Leave an event",
                "security": [{"Session": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/me/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "My enrollments",
                "security": [{"Session": []}],
                "produces": ["application/json", "text/csv", "application/pdf"],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["json", "csv", "pdf"]}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me/enrollments/{eventId}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "One of my enrollments",
                "security": [{"Session": []}],
                "parameters": [{"name": "eventId", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/me/enrollments/{eventId}/ticket.png": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Entry ticket QR code",
                "security": [{"Session": []}],
                "produces": ["image/png"],
                "parameters": [{"name": "eventId", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "PNG image"}, "404": {"description": "Not enrolled"}}
            }
        },
        "/me/calendar.ics": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "My enrollments as iCalendar",
                "security": [{"Session": []}],
                "produces": ["text/calendar"],
                "responses": {"200": {"description": "ICS document"}}
            }
        },
        "/calendar/events.ics": {
            "get": {
                "tags": ["Events"],
                "summary": "Events as iCalendar",
                "produces": ["text/calendar"],
                "responses": {"200": {"description": "ICS document"}}
            }
        },
        "/tickets/verify": {
            "post": {
                "tags": ["Tickets"],
                "summary": "Verify an entry ticket",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TicketVerifyRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}},
            "required": ["email"]
        },
        "EnrollRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "TicketVerifyRequest": {
            "type": "object",
            "properties": {"token": {"type": "string"}},
            "required": ["token"]
        },
        "CreateEventRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "fullDescription": {"type": "string"},
                "date": {"type": "string", "example": "2024-11-25"},
                "time": {"type": "string", "example": "10:00 - 12:00"},
                "location": {"type": "string"},
                "organizer": {"type": "string"},
                "category": {"type": "string", "enum": ["academic", "cultural", "sports", "conference", "administrative"]},
                "audienceType": {"type": "string", "enum": ["students", "staff", "public", "internal"]},
                "maxAttendees": {"type": "integer"},
                "isHighlighted": {"type": "boolean"}
            },
            "required": ["title", "date", "time", "location", "category", "audienceType"]
        },
        "UpdateEventRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "fullDescription": {"type": "string"},
                "date": {"type": "string"},
                "time": {"type": "string"},
                "location": {"type": "string"},
                "organizer": {"type": "string"},
                "category": {"type": "string"},
                "audienceType": {"type": "string"},
                "maxAttendees": {"type": "integer"},
                "clearMaxAttendees": {"type": "boolean"},
                "isHighlighted": {"type": "boolean"}
            }
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
