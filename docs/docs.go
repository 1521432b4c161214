// Package docs holds the OpenAPI description served by gin-swagger.
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
        "/api/mes/machine/poll": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the machine's current order, or assigns the oldest waiting one. 204 when there is nothing to do.",
                "produces": ["application/json"],
                "tags": ["machine"],
                "summary": "Poll for work",
                "parameters": [
                    {"type": "string", "description": "Machine identifier", "name": "machineId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WorkOrderResponse"}},
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/mes/machine/report": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Logs the unit with a fresh serial, backflushes the BOM on OK and advances the order.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["machine"],
                "summary": "Report a produced unit",
                "parameters": [
                    {"description": "Unit result", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "ACK", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/api/mes/material/inbound": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Adds amount to the material's stock, creating the material on first receipt.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["materials"],
                "summary": "Receive material",
                "parameters": [
                    {"description": "Receipt", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.InboundRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MaterialResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apierror.ValidationError"}}
                }
            }
        },
        "/api/mes/order": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Queues a new WAITING order; machines pick orders up oldest first.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Create work order",
                "parameters": [
                    {"description": "Order", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateWorkOrderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.WorkOrderResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apierror.ValidationError"}}
                }
            }
        },
        "/api/mes/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List work orders",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.WorkOrderResponse"}}}
                }
            }
        }
    },
    "definitions": {
        "apierror.APIError": {
            "type": "object",
            "properties": {"detail": {"type": "string"}}
        },
        "apierror.ValidationError": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "dto.CreateWorkOrderRequest": {
            "type": "object",
            "required": ["productCode"],
            "properties": {
                "productCode": {"type": "string", "maxLength": 64},
                "targetQty": {"type": "integer"}
            }
        },
        "dto.InboundRequest": {
            "type": "object",
            "required": ["code"],
            "properties": {
                "amount": {"type": "integer"},
                "code": {"type": "string", "maxLength": 64},
                "name": {"type": "string", "maxLength": 128}
            }
        },
        "dto.MaterialResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "currentStock": {"type": "integer"},
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "dto.ReportRequest": {
            "type": "object",
            "required": ["machineId", "orderId", "result"],
            "properties": {
                "defectCode": {"type": "string", "maxLength": 32},
                "machineId": {"type": "string", "maxLength": 64},
                "orderId": {"type": "integer"},
                "result": {"type": "string", "enum": ["OK", "NG"]}
            }
        },
        "dto.WorkOrderResponse": {
            "type": "object",
            "properties": {
                "assignedMachineId": {"type": "string"},
                "currentQty": {"type": "integer"},
                "id": {"type": "integer"},
                "productCode": {"type": "string"},
                "status": {"type": "string", "enum": ["WAITING", "IN_PROGRESS", "COMPLETED"]},
                "targetQty": {"type": "integer"}
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
	Title:            "shopfloor MES API",
	Description:      "Inventory ledger, work orders and machine coordination for the shop floor.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
