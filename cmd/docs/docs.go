// Package docs holds the OpenAPI description served under /swagger.
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
        "/rates": {
            "get": {
                "description": "Returns every published rate. With refresh=true the cache is refreshed first; on upstream failure the cached rates are served.",
                "produces": ["application/json"],
                "tags": ["rates"],
                "summary": "List exchange rates",
                "parameters": [
                    {"type": "boolean", "description": "Force a refresh from the price feed", "name": "refresh", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "503": {"description": "No rates available", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/rates/calculate": {
            "post": {
                "description": "Prices an amount of the pair's base currency at the current rate, commission included",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["rates"],
                "summary": "Price a transaction",
                "parameters": [
                    {"description": "Pair, amount and direction", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CalculateTransactionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Pair not supported", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Rate not available yet", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/rates/{pair}": {
            "get": {
                "description": "Retrieves the cached rate of a currency pair such as USD-ARS",
                "produces": ["application/json"],
                "tags": ["rates"],
                "summary": "Get an exchange rate",
                "parameters": [
                    {"type": "string", "description": "Currency pair, BASE-TARGET", "name": "pair", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Pair not supported", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Rate not available yet", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/limits": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Monthly volume, daily count and per-transaction bounds of the caller",
                "produces": ["application/json"],
                "tags": ["limits"],
                "summary": "Get limits headroom",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/limits/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Current monthly and daily usage of the caller, after calendar rollover",
                "produces": ["application/json"],
                "tags": ["limits"],
                "summary": "Get usage summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/limits/check": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Advisory check, nothing is recorded",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["limits"],
                "summary": "Check a transaction against the limits",
                "parameters": [
                    {"description": "USD amount", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CheckLimitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/price-locks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Unused, unexpired locks of the caller, soonest expiry first",
                "produces": ["application/json"],
                "tags": ["price locks"],
                "summary": "List active price locks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Freezes the current rate of a pair for the caller for a limited time",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["price locks"],
                "summary": "Lock the current rate",
                "parameters": [
                    {"description": "Pair, USD amount and direction", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreatePriceLockRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Pair not supported", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Rate not available", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/price-locks/{lockID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns one of the caller's locks with its current status",
                "produces": ["application/json"],
                "tags": ["price locks"],
                "summary": "Get a price lock",
                "parameters": [
                    {"type": "string", "description": "Lock ID", "name": "lockID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Lock belongs to another user", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Lock not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes an unused, unexpired lock of the caller",
                "tags": ["price locks"],
                "summary": "Cancel a price lock",
                "parameters": [
                    {"type": "string", "description": "Lock ID", "name": "lockID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Lock belongs to another user", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Lock not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Lock already used or expired", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/transactions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Consumes the price lock and records the USD amount against the caller's limits. A limit rejection answers 200 with executed=false.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Execute a locked quote",
                "parameters": [
                    {"description": "Lock to execute", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ExecuteTransactionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Declined by limits", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "201": {"description": "Executed", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Lock belongs to another user", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Lock not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Lock already used or expired", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CalculateTransactionRequest": {
            "type": "object",
            "required": ["amount", "direction", "pair"],
            "properties": {
                "amount": {"type": "number"},
                "direction": {"type": "string", "enum": ["buy", "sell"]},
                "pair": {"type": "string"}
            }
        },
        "dto.CheckLimitRequest": {
            "type": "object",
            "required": ["amountUsd"],
            "properties": {
                "amountUsd": {"type": "number"}
            }
        },
        "dto.CreatePriceLockRequest": {
            "type": "object",
            "required": ["amountUsd", "direction", "pair"],
            "properties": {
                "amountUsd": {"type": "number"},
                "direction": {"type": "string", "enum": ["buy", "sell"]},
                "pair": {"type": "string"}
            }
        },
        "dto.ExecuteTransactionRequest": {
            "type": "object",
            "required": ["lockId"],
            "properties": {
                "lockId": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "requestId": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "timestamp": {"type": "string"}
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
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Ecucondor Rates API",
	Description:      "Exchange rates, transaction limits and price locks for the Ecucondor web front-end.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
