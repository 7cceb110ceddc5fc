// Package docs holds the swagger document for the studio backend.
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
            "get": {"tags": ["health"], "summary": "Liveness probe", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"tags": ["health"], "summary": "Readiness probe", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/v1/identities": {
            "post": {
                "tags": ["identities"], "summary": "Create an identity",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.credentialsRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Session"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.AuthError"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/domain.AuthError"}}}
            }
        },
        "/v1/identities/provision": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["identities"], "summary": "Provision an identity",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.provisionRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Identity"}}, "401": {"description": "Unauthorized"}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/domain.AuthError"}}}
            }
        },
        "/v1/identities/{uid}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["identities"], "summary": "Delete an identity",
                "parameters": [{"type": "string", "in": "path", "name": "uid", "required": true}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/domain.AuthError"}}}
            }
        },
        "/v1/identities/{uid}/display-name": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["identities"], "summary": "Set display name",
                "consumes": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "uid", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.displayNameRequest"}}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}
            }
        },
        "/v1/sessions": {
            "post": {
                "tags": ["sessions"], "summary": "Sign in",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.credentialsRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Session"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.AuthError"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.AuthError"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["sessions"], "summary": "Sign out",
                "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/v1/sessions/credential": {
            "post": {
                "tags": ["sessions"], "summary": "Sign in with a federated credential",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.credentialRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Session"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.AuthError"}}}
            }
        },
        "/v1/documents/{collection}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"], "summary": "Query a collection by field equality",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "collection", "required": true}, {"type": "string", "in": "query", "name": "field", "required": true}, {"type": "string", "in": "query", "name": "value", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.queryResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"], "summary": "Create a document with a server-assigned id",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "collection", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "additionalProperties": true}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Document"}}}
            }
        },
        "/v1/documents/{collection}/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"], "summary": "Get a document",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "collection", "required": true}, {"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Document"}}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"], "summary": "Write a document, replacing or merging",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "collection", "required": true}, {"type": "string", "in": "path", "name": "id", "required": true}, {"type": "boolean", "in": "query", "name": "merge"}, {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "additionalProperties": true}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Document"}}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"], "summary": "Update fields of an existing document",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "in": "path", "name": "collection", "required": true}, {"type": "string", "in": "path", "name": "id", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"type": "object", "additionalProperties": true}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Document"}}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["documents"], "summary": "Delete a document",
                "parameters": [{"type": "string", "in": "path", "name": "collection", "required": true}, {"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "definitions": {
        "domain.AuthError": {"type": "object", "properties": {"code": {"type": "string"}, "error": {"type": "string"}}},
        "domain.Document": {"type": "object", "properties": {"id": {"type": "string"}, "data": {"type": "object", "additionalProperties": true}}},
        "domain.Identity": {"type": "object", "properties": {"uid": {"type": "string"}, "email": {"type": "string"}, "display_name": {"type": "string"}, "provider": {"type": "string"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "domain.Session": {"type": "object", "properties": {"identity": {"$ref": "#/definitions/domain.Identity"}, "token": {"type": "string"}}},
        "handler.credentialRequest": {"type": "object", "properties": {"provider": {"type": "string"}, "id_token": {"type": "string"}}},
        "handler.credentialsRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.displayNameRequest": {"type": "object", "properties": {"display_name": {"type": "string"}}},
        "handler.provisionRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "display_name": {"type": "string"}}},
        "handler.queryResponse": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/domain.Document"}}}}
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
	Title:            "Studio backend API",
	Description:      "Identity provider and document store behind the studio client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
