// Package docs registers the OpenAPI description served under /swagger.
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
            "get": {"tags": ["system"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/auth/login": {
            "post": {"tags": ["auth"], "summary": "Log in", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.TokenPair"}},
                    "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}
        },
        "/api/v1/auth/refresh": {
            "post": {"tags": ["auth"], "summary": "Refresh tokens", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RefreshRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.TokenPair"}},
                    "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/auth/me": {
            "get": {"tags": ["auth"], "summary": "Current user", "security": [{"BearerAuth": []}], "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/algorithms": {
            "get": {"tags": ["algorithms"], "summary": "List algorithms", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 12, "name": "size", "in": "query"},
                    {"type": "integer", "name": "category_id", "in": "query"},
                    {"type": "integer", "name": "difficulty_id", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"enum": ["title", "view_count", "created_at"], "type": "string", "name": "sort_by", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "name": "order", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/algorithms/{slug}": {
            "get": {"tags": ["algorithms"], "summary": "Get algorithm", "produces": ["application/json"],
                "description": "Full published record with code templates. Each successful read counts one view.\nDrafts answer 404 here; editors load them by id from GET /api/v1/admin/algorithms/{id}.",
                "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/categories": {
            "get": {"tags": ["catalog"], "summary": "List categories", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/categories/{slug}": {
            "get": {"tags": ["catalog"], "summary": "Get category", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/difficulties": {
            "get": {"tags": ["catalog"], "summary": "List difficulty levels", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/languages": {
            "get": {"tags": ["catalog"], "summary": "List programming languages", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/admin/algorithms": {
            "post": {"tags": ["admin"], "summary": "Create algorithm", "security": [{"BearerAuth": []}],
                "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/api/v1/admin/algorithms/{id}": {
            "get": {"tags": ["admin"], "summary": "Get algorithm by id", "security": [{"BearerAuth": []}],
                "description": "Includes drafts. Does not count a view. This is how editors open an unpublished algorithm.",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["admin"], "summary": "Update algorithm", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["admin"], "summary": "Delete algorithm", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/admin/algorithms/{id}/templates": {
            "post": {"tags": ["admin"], "summary": "Add code template", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/api/v1/admin/categories": {
            "post": {"tags": ["admin"], "summary": "Create category", "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/v1/admin/categories/{id}": {
            "delete": {"tags": ["admin"], "summary": "Delete category", "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/admin/users": {
            "post": {"tags": ["admin"], "summary": "Create user", "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        }
    },
    "definitions": {
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "admin@algoref.com"},
                "password": {"type": "string", "example": "admin123"}
            }
        },
        "handlers.RefreshRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {"refresh_token": {"type": "string"}}
        },
        "service.TokenPair": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "refresh_token": {"type": "string"},
                "token_type": {"type": "string", "example": "bearer"},
                "expires_in": {"type": "integer", "example": 900}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "editor"]}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Algorithm Reference API",
	Description:      "Algorithm learning content: public catalog, search and authoring.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
