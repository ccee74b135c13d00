// Package docs registers the ops API description served under /swagger/.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Liveness and store check",
                "responses": {
                    "200": {"description": "data.status: ok", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/pending": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["schedule"],
                "summary": "List upcoming pending events",
                "parameters": [
                    {"type": "string", "description": "First end date, YYYYMMDD", "name": "from", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.PendingListSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/recurring": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["schedule"],
                "summary": "List recurring dates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.RecurringListSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/calendar.ics": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/calendar"],
                "tags": ["schedule"],
                "summary": "iCalendar feed",
                "responses": {
                    "200": {"description": "iCalendar document", "schema": {"type": "string"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/match": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["schedule"],
                "summary": "Dry-run the pattern catalog",
                "parameters": [
                    {"description": "Message text", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.MatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.MatchSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "helpers.APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {"data": {}, "error": {"$ref": "#/definitions/helpers.APIError"}}
        },
        "domain.PendingEvent": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "end_date": {"type": "integer", "example": 20240831},
                "created_at": {"type": "string"}
            }
        },
        "services.RecurringView": {
            "type": "object",
            "properties": {
                "subject_name": {"type": "string"},
                "date": {"type": "integer", "example": 831},
                "category": {"type": "string", "enum": ["birthday", "anniversary"]},
                "occasion": {"type": "string"},
                "next_occurrence": {"type": "string", "example": "2024-08-31"},
                "days_until": {"type": "integer"}
            }
        },
        "services.MatchView": {
            "type": "object",
            "properties": {
                "rule": {"type": "string"},
                "kind": {"type": "string", "enum": ["future_event", "immediate_notice"]},
                "event_name": {"type": "string"},
                "end_date": {"type": "integer"},
                "notice": {"type": "string"}
            }
        },
        "controllers.MatchRequest": {
            "type": "object",
            "properties": {"text": {"type": "string"}}
        },
        "controllers.PendingListSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.PendingEvent"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.RecurringListSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/services.RecurringView"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.MatchSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/services.MatchView"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token issued by ` + "`announcebot token`" + `",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "announcebot ops API",
	Description:      "Read-only view of pending events and recurring dates, plus a dry-run matcher.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
