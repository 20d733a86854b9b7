// Package docs holds the OpenAPI description of the route server, in the
// layout produced by swag init. Regenerate with:
//
//	swag init -g internal/api/router.go -o internal/api/docs
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
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/forms.LoginForm"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/forms.FormState"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/forms.FormState"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/forms.FormState"}}
                }
            }
        },
        "/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Signup",
                "parameters": [
                    {"description": "Account details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/forms.SignupForm"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/forms.FormState"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/forms.FormState"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/forms.FormState"}}
                }
            }
        },
        "/settings": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["settings"],
                "summary": "Update settings",
                "parameters": [
                    {"description": "Profile or password fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/forms.SettingsForm"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/forms.FormState"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/forms.FormState"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/forms.FormState"}}
                }
            }
        },
        "/logout": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "parameters": [
                    {"type": "string", "description": "Path the user is on", "name": "from", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Redirect"}}
                }
            }
        },
        "/refresh-token": {
            "get": {
                "tags": ["auth"],
                "summary": "Refresh access token",
                "parameters": [
                    {"type": "string", "description": "Where to go afterwards", "name": "redirect", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.FatalError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/domain.FatalError"}}
                }
            }
        },
        "/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Current user menu",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/forms.Menu"}},
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "domain.FatalError": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "statusText": {"type": "string"}
            }
        },
        "domain.Redirect": {
            "type": "object",
            "properties": {
                "reload": {"type": "boolean"},
                "to": {"type": "string"}
            }
        },
        "forms.LoginForm": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "forms.SignupForm": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]}
            }
        },
        "forms.SettingsForm": {
            "type": "object",
            "properties": {
                "confirm_password": {"type": "string"},
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "forms.Notice": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "message": {"type": "string"},
                "position": {"type": "string"}
            }
        },
        "forms.FormState": {
            "type": "object",
            "properties": {
                "fieldErrors": {"type": "object", "additionalProperties": {"type": "string"}},
                "notice": {"$ref": "#/definitions/forms.Notice"},
                "redirect": {"$ref": "#/definitions/domain.Redirect"}
            }
        },
        "forms.MenuItem": {
            "type": "object",
            "properties": {
                "href": {"type": "string"},
                "label": {"type": "string"},
                "method": {"type": "string"}
            }
        },
        "forms.Menu": {
            "type": "object",
            "properties": {
                "avatarUrl": {"type": "string"},
                "email": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/forms.MenuItem"}},
                "username": {"type": "string"}
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
	Title:            "DigitalLog session server",
	Description:      "Local routes for login, signup, token refresh, logout and settings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
