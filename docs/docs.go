// Package docs holds the Swagger document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "Server is healthy"}}
            }
        },
        "/schedules": {
            "get": {
                "tags": ["schedules"],
                "summary": "List schedules",
                "description": "List schedules ordered by start date, optionally filtered",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Category", "name": "category", "in": "query", "enum": ["work", "personal", "meeting", "reminder", "other"]},
                    {"type": "string", "description": "Priority", "name": "priority", "in": "query", "enum": ["low", "medium", "high"]},
                    {"type": "boolean", "description": "Completion state", "name": "isCompleted", "in": "query"},
                    {"type": "string", "description": "Start of range (RFC3339 or YYYY-MM-DD)", "name": "startDate", "in": "query"},
                    {"type": "string", "description": "End of range (RFC3339 or YYYY-MM-DD)", "name": "endDate", "in": "query"},
                    {"type": "string", "description": "Substring of title or description", "name": "search", "in": "query"},
                    {"type": "string", "description": "Comma-separated tags, any match", "name": "tags", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["schedules"],
                "summary": "Create a schedule",
                "description": "Create a schedule; repeating schedules also store their occurrences",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "Schedule data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/schedules/{id}": {
            "get": {
                "tags": ["schedules"],
                "summary": "Get schedule by ID",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["schedules"],
                "summary": "Update a schedule",
                "consumes": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["schedules"],
                "summary": "Delete a schedule",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/schedules/bulk": {
            "delete": {
                "tags": ["schedules"],
                "summary": "Delete several schedules",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkDeleteRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}}
            }
        },
        "/schedules/all": {
            "delete": {
                "tags": ["schedules"],
                "summary": "Delete every schedule",
                "description": "Backs up the schedule file, then clears it",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}}
            }
        },
        "/schedules/analytics": {
            "get": {
                "tags": ["schedules"],
                "summary": "Schedule analytics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}}
            }
        },
        "/schedules/stats": {
            "get": {
                "tags": ["schedules"],
                "summary": "Data file statistics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}}
            }
        },
        "/schedules/export/{format}": {
            "get": {
                "tags": ["schedules"],
                "summary": "Export schedules",
                "description": "Download every schedule as json, csv, yaml or ics",
                "produces": ["application/json", "text/csv", "application/yaml", "text/calendar"],
                "parameters": [{"type": "string", "name": "format", "in": "path", "required": true, "enum": ["json", "csv", "yaml", "ics"]}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/schedules/import": {
            "post": {
                "tags": ["schedules"],
                "summary": "Import schedules",
                "description": "Back up, then re-create each record with a fresh id",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/schedules/import/ics": {
            "post": {
                "tags": ["schedules"],
                "summary": "Import an iCalendar feed",
                "consumes": ["text/calendar"],
                "parameters": [{"type": "boolean", "description": "Replace every stored schedule", "name": "replace", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/templates": {
            "get": {
                "tags": ["templates"],
                "summary": "List templates",
                "parameters": [{"type": "string", "name": "category", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}}
            },
            "post": {
                "tags": ["templates"],
                "summary": "Create a template",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTemplateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/templates/category/{category}": {
            "get": {
                "tags": ["templates"],
                "summary": "List templates of one category",
                "parameters": [{"type": "string", "name": "category", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/templates/{id}": {
            "get": {
                "tags": ["templates"],
                "summary": "Get template by ID",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["templates"],
                "summary": "Update a template",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}}
            },
            "delete": {
                "tags": ["templates"],
                "summary": "Delete a template",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}}
            }
        },
        "/templates/{id}/duplicate": {
            "post": {
                "tags": ["templates"],
                "summary": "Duplicate a template",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "schema": {"type": "object", "properties": {"name": {"type": "string"}}}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Response"}}}
            }
        },
        "/templates/{id}/use": {
            "post": {
                "tags": ["templates"],
                "summary": "Create a schedule from a template",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object", "required": ["startDate"], "properties": {
                        "startDate": {"type": "string", "format": "date-time"},
                        "title": {"type": "string"},
                        "description": {"type": "string"}
                    }}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/templates/from-schedule/{scheduleId}": {
            "post": {
                "tags": ["templates"],
                "summary": "Create a template from a schedule",
                "parameters": [
                    {"type": "string", "name": "scheduleId", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "Response": {
            "type": "object",
            "properties": {
                "data": {},
                "total": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {"field": {"type": "string"}, "message": {"type": "string"}}
                    }
                }
            }
        },
        "CreateScheduleRequest": {
            "type": "object",
            "required": ["title", "startDate", "endDate", "category", "priority"],
            "properties": {
                "title": {"type": "string", "maxLength": 100},
                "description": {"type": "string", "maxLength": 500},
                "startDate": {"type": "string", "format": "date-time"},
                "endDate": {"type": "string", "format": "date-time"},
                "category": {"type": "string", "enum": ["work", "personal", "meeting", "reminder", "other"]},
                "priority": {"type": "string", "enum": ["low", "medium", "high"]},
                "tags": {"type": "array", "items": {"type": "string"}},
                "repeatType": {"type": "string", "enum": ["none", "daily", "weekly", "monthly", "yearly"]},
                "repeatInterval": {"type": "integer", "minimum": 1, "maximum": 365},
                "repeatEndDate": {"type": "string", "format": "date-time"},
                "repeatDays": {"type": "array", "items": {"type": "integer", "minimum": 0, "maximum": 6}}
            }
        },
        "UpdateScheduleRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 100},
                "description": {"type": "string", "maxLength": 500},
                "startDate": {"type": "string", "format": "date-time"},
                "endDate": {"type": "string", "format": "date-time"},
                "category": {"type": "string", "enum": ["work", "personal", "meeting", "reminder", "other"]},
                "priority": {"type": "string", "enum": ["low", "medium", "high"]},
                "isCompleted": {"type": "boolean"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "BulkDeleteRequest": {
            "type": "object",
            "required": ["ids"],
            "properties": {"ids": {"type": "array", "items": {"type": "string"}}}
        },
        "ImportRequest": {
            "type": "object",
            "required": ["schedules"],
            "properties": {
                "schedules": {"type": "array", "items": {"type": "object"}},
                "replace": {"type": "boolean"}
            }
        },
        "CreateTemplateRequest": {
            "type": "object",
            "required": ["name", "category", "priority", "duration"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "description": {"type": "string", "maxLength": 500},
                "category": {"type": "string", "enum": ["work", "personal", "meeting", "reminder", "other"]},
                "priority": {"type": "string", "enum": ["low", "medium", "high"]},
                "duration": {"type": "integer", "minimum": 1, "maximum": 1440},
                "tags": {"type": "array", "items": {"type": "string"}},
                "repeatType": {"type": "string", "enum": ["none", "daily", "weekly", "monthly", "yearly"]},
                "repeatInterval": {"type": "integer"},
                "repeatDays": {"type": "array", "items": {"type": "integer"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3001",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Planner API",
	Description:      "Personal schedule manager with recurring events, templates and analytics",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
