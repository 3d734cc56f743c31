// Package docs registers the DevEvent OpenAPI document with swag.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/bookings": {
            "post": {
                "description": "Books a seat on an event for an email address and sends a confirmation email. One booking per event and email.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Book an event",
                "parameters": [
                    {"description": "Event ID and email", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "data contains the booking", "schema": {"$ref": "#/definitions/controllers.BookingSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "error.code: conflict (already booked)", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/events": {
            "get": {
                "description": "Returns all events, newest first.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List events",
                "responses": {
                    "200": {"description": "data contains the events", "schema": {"$ref": "#/definitions/controllers.ListEventsSuccessResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "post": {
                "description": "Creates an event from multipart form fields and an image file. agenda and tags accept either a JSON array string or repeated fields.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Create a new event",
                "parameters": [
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "description", "in": "formData", "required": true},
                    {"type": "string", "name": "overview", "in": "formData", "required": true},
                    {"type": "string", "name": "venue", "in": "formData", "required": true},
                    {"type": "string", "name": "location", "in": "formData", "required": true},
                    {"type": "string", "name": "date", "in": "formData", "required": true},
                    {"type": "string", "name": "time", "in": "formData", "required": true},
                    {"type": "string", "name": "mode", "in": "formData", "required": true},
                    {"type": "string", "name": "audience", "in": "formData", "required": true},
                    {"type": "string", "name": "agenda", "in": "formData", "required": true},
                    {"type": "string", "name": "organizer", "in": "formData", "required": true},
                    {"type": "string", "name": "tags", "in": "formData", "required": true},
                    {"type": "file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "data contains the created event", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "error.code: conflict (slug taken)", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "413": {"description": "error.code: payload_too_large", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/events/{id}": {
            "patch": {
                "description": "Updates the given fields. Changing the title regenerates the slug.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Update event details",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to update (all optional)", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.EventPatch"}}
                ],
                "responses": {
                    "200": {"description": "data contains the updated event", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "error.code: conflict (slug taken)", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "delete": {
                "description": "Deletes an event without bookings and removes its image from the media host.",
                "tags": ["events"],
                "summary": "Delete an event",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "error.code: conflict (event has bookings)", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/events/{id}/bookings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "List the bookings of an event",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "data contains the bookings, newest first", "schema": {"$ref": "#/definitions/controllers.ListBookingsSuccessResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/events/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get an event by slug",
                "parameters": [
                    {"type": "string", "description": "Event slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "data contains the event", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "Reports whether the database connection can be acquired.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "data contains status and store", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "error.code: service_unavailable", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.BookingSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.Booking"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.CreateBookingRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "eventId": {"type": "string"}
            }
        },
        "controllers.EventSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.Event"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ListBookingsSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.Booking"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ListEventsSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.Event"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "domain.Booking": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "eventId": {"type": "string"},
                "id": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.Event": {
            "type": "object",
            "properties": {
                "agenda": {"type": "array", "items": {"type": "string"}},
                "audience": {"type": "string"},
                "createdAt": {"type": "string"},
                "date": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "image": {"type": "string"},
                "location": {"type": "string"},
                "mode": {"type": "string", "enum": ["online", "offline", "hybrid"]},
                "organizer": {"type": "string"},
                "overview": {"type": "string"},
                "slug": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "time": {"type": "string"},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"},
                "venue": {"type": "string"}
            }
        },
        "domain.EventPatch": {
            "type": "object",
            "properties": {
                "agenda": {"type": "array", "items": {"type": "string"}},
                "audience": {"type": "string"},
                "date": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "mode": {"type": "string"},
                "organizer": {"type": "string"},
                "overview": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "time": {"type": "string"},
                "title": {"type": "string"},
                "venue": {"type": "string"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DevEvent API",
	Description:      "Event listings with image upload and bookings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
