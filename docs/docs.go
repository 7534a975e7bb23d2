package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/todos": {
            "get": {
                "tags": ["todos"],
                "summary": "List todos",
                "description": "List every todo ordered by position, with its category embedded",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entities.Task"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["todos"],
                "summary": "Create a todo",
                "description": "Create a todo at the end of the list",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.CreateTaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.Task"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            },
            "patch": {
                "tags": ["todos"],
                "summary": "Reorder todos",
                "description": "Apply a batch of position updates atomically",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.RepositionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entities.Task"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            }
        },
        "/todos/{id}": {
            "get": {
                "tags": ["todos"],
                "summary": "Get a todo",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true, "description": "Todo ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.Task"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["todos"],
                "summary": "Update a todo",
                "description": "Partial update; fields left out are unchanged, null clears description, dueDate and categoryId",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true, "description": "Todo ID"},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.UpdateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.Task"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["todos"],
                "summary": "Delete a todo",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true, "description": "Todo ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "tags": ["categories"],
                "summary": "List categories",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entities.Category"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["categories"],
                "summary": "Create a category",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.CreateCategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.Category"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            }
        },
        "/categories/{id}": {
            "get": {
                "tags": ["categories"],
                "summary": "Get a category with its todos",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true, "description": "Category ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.Category"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["categories"],
                "summary": "Update a category",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true, "description": "Category ID"},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ports.UpdateCategoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.Category"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["categories"],
                "summary": "Delete a category",
                "description": "Todos in the category are kept and become uncategorized",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true, "description": "Category ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ports.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "entities.Category": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "color": {"type": "string", "example": "#6366F1"},
                "todos": {"type": "array", "items": {"$ref": "#/definitions/entities.Task"}},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "entities.Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "completed": {"type": "boolean"},
                "dueDate": {"type": "string", "format": "date-time"},
                "priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]},
                "categoryId": {"type": "string", "format": "uuid"},
                "category": {"$ref": "#/definitions/entities.Category"},
                "position": {"type": "integer"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "ports.CreateTaskRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "completed": {"type": "boolean"},
                "dueDate": {"type": "string", "format": "date-time"},
                "priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]},
                "categoryId": {"type": "string", "format": "uuid"}
            }
        },
        "ports.UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string", "x-nullable": true},
                "completed": {"type": "boolean"},
                "dueDate": {"type": "string", "format": "date-time", "x-nullable": true},
                "priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]},
                "categoryId": {"type": "string", "format": "uuid", "x-nullable": true}
            }
        },
        "ports.PositionUpdate": {
            "type": "object",
            "required": ["id", "position"],
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "position": {"type": "integer", "minimum": 0}
            }
        },
        "ports.RepositionRequest": {
            "type": "object",
            "required": ["updates"],
            "properties": {
                "updates": {"type": "array", "items": {"$ref": "#/definitions/ports.PositionUpdate"}}
            }
        },
        "ports.CreateCategoryRequest": {
            "type": "object",
            "required": ["name", "color"],
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string"}
            }
        },
        "ports.UpdateCategoryRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string"}
            }
        },
        "ports.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "ports.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Todos API",
	Description:      "Personal task board with categories and drag-and-drop ordering",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
