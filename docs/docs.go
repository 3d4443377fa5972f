// Package docs registers the OpenAPI description of the location API with swag.
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
        "/api/add-location": {
            "post": {
                "description": "Saves a location for the session's user. A location with the same name has its coordinates replaced.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Locations"],
                "summary": "Add or update a location",
                "parameters": [
                    {
                        "description": "Location",
                        "name": "location",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.AddLocationRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}
                }
            }
        },
        "/api/get-locations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Locations"],
                "summary": "List locations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LocationsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}
                }
            }
        },
        "/api/remove-locations": {
            "post": {
                "description": "Deletes the named locations of the session's user. The message holds the number of deleted rows.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Locations"],
                "summary": "Remove locations by name",
                "parameters": [
                    {
                        "description": "Names to delete",
                        "name": "names",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.RemoveLocationsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.MessageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.AddLocationRequest": {
            "type": "object",
            "required": ["lat", "lon", "name"],
            "properties": {
                "lat": {"type": "string"},
                "lon": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "handler.LocationsResponse": {
            "type": "object",
            "properties": {
                "locations": {"type": "array", "items": {"$ref": "#/definitions/models.Location"}}
            }
        },
        "handler.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "handler.RemoveLocationsRequest": {
            "type": "object",
            "required": ["locationNames"],
            "properties": {
                "locationNames": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.Location": {
            "type": "object",
            "properties": {
                "lat": {"type": "string"},
                "lon": {"type": "string"},
                "name": {"type": "string"}
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
	Title:            "Weather Dashboard API",
	Description:      "Per-user saved locations behind a session cookie. Requests without a live session answer with changeToURL.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
