// Package docs holds the OpenAPI description served under /swagger/. It is
// kept in the layout swag emits and follows the handler annotations; after
// changing them, regenerate with `swag init -g cmd/dashboard/main.go`.
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
        "/api/menu": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sidebar menu",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/service.Route"}}
                    }
                }
            }
        },
        "/api/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}
                }
            }
        },
        "/login": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.pageResponse"}},
                    "303": {"description": "already logged in, redirected to /projects"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "303": {"description": "redirected to /projects"},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "303": {"description": "redirected to /login"}
                }
            }
        },
        "/projects": {
            "get": {
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "List projects",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.projectsView"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Create project",
                "parameters": [
                    {
                        "description": "Project",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.projectRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Project"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/projects/{id}/status": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Update project status",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Status",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.projectStatusRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Project"}}
                }
            }
        },
        "/milestones": {
            "get": {
                "produces": ["application/json"],
                "tags": ["milestones"],
                "summary": "List milestones",
                "parameters": [
                    {"type": "string", "description": "Project ID (defaults to the first project)", "name": "projectId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.milestonesView"}}
                }
            }
        },
        "/documents": {
            "get": {
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "List documents",
                "parameters": [
                    {"type": "string", "description": "Project ID (defaults to the first project)", "name": "projectId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.documentsView"}}
                }
            }
        },
        "/admin": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.usersView"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "fullName": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "PI", "MEMBER", "VIEWER"]},
                "createdAt": {"type": "string"}
            }
        },
        "domain.Project": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "summary": {"type": "string"},
                "status": {"type": "string", "enum": ["PLANNING", "ACTIVE", "ON_HOLD", "COMPLETED", "ARCHIVED"]},
                "pi": {"$ref": "#/definitions/domain.User"},
                "tags": {"type": "string"},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.Milestone": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "projectId": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "dueDate": {"type": "string"},
                "completed": {"type": "boolean"},
                "createdBy": {"$ref": "#/definitions/domain.User"}
            }
        },
        "domain.Document": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "projectId": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "fileName": {"type": "string"},
                "contentType": {"type": "string"},
                "uploadedBy": {"$ref": "#/definitions/domain.User"},
                "uploadedAt": {"type": "string"}
            }
        },
        "service.Route": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "label": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.pageResponse": {
            "type": "object",
            "properties": {"page": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "phase": {"type": "string", "enum": ["loading", "authenticated", "unauthenticated"]},
                "user": {"$ref": "#/definitions/domain.User"},
                "location": {"type": "string"},
                "menu": {"type": "array", "items": {"$ref": "#/definitions/service.Route"}}
            }
        },
        "handler.projectRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"},
                "summary": {"type": "string"},
                "tags": {"type": "string"},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"}
            }
        },
        "handler.projectStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["PLANNING", "ACTIVE", "ON_HOLD", "COMPLETED", "ARCHIVED"]}
            }
        },
        "handler.projectsView": {
            "type": "object",
            "properties": {
                "projects": {"type": "array", "items": {"$ref": "#/definitions/domain.Project"}},
                "statuses": {"type": "array", "items": {"type": "string"}},
                "actions": {
                    "type": "object",
                    "properties": {
                        "create": {"type": "boolean"},
                        "edit": {"type": "boolean"},
                        "changeStatus": {"type": "boolean"},
                        "delete": {"type": "boolean"}
                    }
                }
            }
        },
        "handler.milestonesView": {
            "type": "object",
            "properties": {
                "projects": {"type": "array", "items": {"$ref": "#/definitions/domain.Project"}},
                "selectedProjectId": {"type": "string"},
                "milestones": {"type": "array", "items": {"$ref": "#/definitions/domain.Milestone"}},
                "actions": {"type": "object", "properties": {"manage": {"type": "boolean"}}}
            }
        },
        "handler.documentsView": {
            "type": "object",
            "properties": {
                "projects": {"type": "array", "items": {"$ref": "#/definitions/domain.Project"}},
                "selectedProjectId": {"type": "string"},
                "documents": {"type": "array", "items": {"$ref": "#/definitions/domain.Document"}},
                "actions": {"type": "object", "properties": {"delete": {"type": "boolean"}}}
            }
        },
        "handler.usersView": {
            "type": "object",
            "properties": {
                "users": {"type": "array", "items": {"$ref": "#/definitions/domain.User"}},
                "roles": {"type": "array", "items": {"type": "string"}},
                "me": {"type": "string"}
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
	Title:            "Research Tracker Dashboard",
	Description:      "Session-aware dashboard over the research tracker API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
