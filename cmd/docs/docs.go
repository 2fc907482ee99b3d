// Package docs is generated by swaggo/swag. Regenerate with
// swag init -g cmd/esa_backend/main.go -o cmd/docs
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
        "/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lists the expenses the caller takes part in, newest first.",
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "List expenses",
                "parameters": [
                    {"type": "string", "description": "Tag slug or ID", "name": "tag", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Token from the previous page", "name": "nextToken", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListExpensesResponse"}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates an expense with its details. When every detail omits its amount the total is allocated by shares.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["expenses"],
                "summary": "Create an expense",
                "parameters": [
                    {"description": "Expense with details", "name": "expense", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ExpenseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ExpenseResponse"}},
                    "400": {"description": "Invalid input or violated business rules", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Running balance of every user at the end of each day that has expenses, keyed by date.",
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Balance history",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "object", "additionalProperties": {"type": "string"}}}}
                }
            }
        }
    },
    "definitions": {
        "apperrors.Violation": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "field": {"type": "string"},
                "message": {"type": "string"},
                "expected": {"type": "string"},
                "actual": {"type": "string"}
            }
        },
        "dto.DetailRequest": {
            "type": "object",
            "required": ["userID"],
            "properties": {
                "userID": {"type": "string"},
                "shares": {"type": "integer"},
                "amount": {"type": "string"}
            }
        },
        "dto.DetailResponse": {
            "type": "object",
            "properties": {
                "detailID": {"type": "string"},
                "userID": {"type": "string"},
                "shares": {"type": "integer"},
                "amount": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "violations": {"type": "array", "items": {"$ref": "#/definitions/apperrors.Violation"}}
            }
        },
        "dto.ExpenseRequest": {
            "type": "object",
            "required": ["date", "payerID", "splitMode", "title"],
            "properties": {
                "title": {"type": "string", "maxLength": 255},
                "date": {"type": "string"},
                "totalAmount": {"type": "string"},
                "splitMode": {"type": "string", "enum": ["SHARE", "AMOUNT"]},
                "payerID": {"type": "string"},
                "tagID": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/dto.DetailRequest"}}
            }
        },
        "dto.ExpenseResponse": {
            "type": "object",
            "properties": {
                "expenseID": {"type": "string"},
                "title": {"type": "string"},
                "date": {"type": "string"},
                "totalAmount": {"type": "string"},
                "splitMode": {"type": "string"},
                "payerID": {"type": "string"},
                "tagID": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/dto.DetailResponse"}},
                "createdAt": {"type": "string"},
                "createdBy": {"type": "string"},
                "lastUpdatedAt": {"type": "string"},
                "lastUpdatedBy": {"type": "string"}
            }
        },
        "dto.ListExpensesResponse": {
            "type": "object",
            "properties": {
                "expenses": {"type": "array", "items": {"$ref": "#/definitions/dto.ExpenseResponse"}},
                "nextToken": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Expense Sharing API",
	Description:      "Shared expenses, their split between participants, and running balances.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
