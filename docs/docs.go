// Package docs holds the OpenAPI document served under /swagger.
// Regenerate it from the handler annotations with:
//
//	swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag/v2"

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
        "/activity-logs": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Newest first. limit defaults to 50 and is capped at 500.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "activity"
                ],
                "summary": "Recent activity",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Maximum entries",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Entity type filter",
                        "name": "entityType",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Entity ID filter",
                        "name": "entityId",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "description": "Authenticate with username and password and receive a bearer token carrying the operator's role",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Operator login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Revokes the presented bearer token for the rest of its lifetime",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Operator logout",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Returns the operator behind the bearer token with their role permissions",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Current operator",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/budgets": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Defaults to the current year",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "budgets"
                ],
                "summary": "Budgets of a year",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Year",
                        "name": "year",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/budgets/{year}/{month}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "budgets"
                ],
                "summary": "Budget of a month",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Year",
                        "name": "year",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Month (1-12)",
                        "name": "month",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "budgets"
                ],
                "summary": "Set the allowance of a month",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Year",
                        "name": "year",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Month (1-12)",
                        "name": "month",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Allowance",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/budgets/{year}/{month}/recalculate": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "budgets"
                ],
                "summary": "Recompute a month's spending from delivered orders",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Year",
                        "name": "year",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Month (1-12)",
                        "name": "month",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports whether the document store is reachable",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "system"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "503": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/inventory": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "List inventory items",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Create inventory item",
                "parameters": [
                    {
                        "description": "Item",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/inventory/expiring": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Items with a batch expiring soon",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Look-ahead window in days",
                        "name": "days",
                        "in": "query",
                        "default": 7
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/inventory/export": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Export inventory as a spreadsheet",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/inventory/low-stock": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Items at or below their restock threshold",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/inventory/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Get inventory item by ID",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inventory item ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Applies the given fields; omitted fields are left unchanged",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Update inventory item",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inventory item ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "description": "Changes",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Delete inventory item",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inventory item ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/inventory/{id}/batches": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Locates or creates the batch by number, adds the quantity and records a receipt movement",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Add stock to a batch",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inventory item ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "description": "Batch stock",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "List an item's batches",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inventory item ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/inventory/{id}/consume": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Draws from the named batch, or from the earliest expiring batches when none is given",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "Consume stock",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inventory item ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "description": "Consumption",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/inventory/{id}/transactions": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "inventory"
                ],
                "summary": "List an item's stock movements",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Inventory item ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/menu": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "menu"
                ],
                "summary": "List menu items",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Availability is computed from current stock",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "menu"
                ],
                "summary": "Create menu item",
                "parameters": [
                    {
                        "description": "Dish",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/menu/available": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "menu"
                ],
                "summary": "List dishes that can currently be served",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/menu/refresh-availability": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "menu"
                ],
                "summary": "Recompute availability of every dish",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/menu/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "menu"
                ],
                "summary": "Get menu item by ID",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Menu item ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "menu"
                ],
                "summary": "Update menu item",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Menu item ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "description": "Changes",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "menu"
                ],
                "summary": "Delete menu item",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Menu item ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/purchase-orders": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "List purchase orders",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Filter by status",
                        "name": "status",
                        "in": "query",
                        "enum": [
                            "pending",
                            "approved",
                            "in-transit",
                            "delivered",
                            "rejected"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Creates a pending order for an approved supplier",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Create purchase order",
                "parameters": [
                    {
                        "description": "Order",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/purchase-orders/export": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Export purchase orders as a spreadsheet",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Filter by status",
                        "name": "status",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/purchase-orders/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Get purchase order by ID",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only pending orders can be modified",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Update purchase order",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "description": "Changes",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Delete purchase order",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/purchase-orders/{id}/approve": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Approve purchase order",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "description": "Reason",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/purchase-orders/{id}/dispatch": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Mark purchase order in transit",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "description": "Reason",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/purchase-orders/{id}/email": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Subject and content default to a generated order summary. Mail endpoint failures are returned verbatim.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Email purchase order to its supplier",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "description": "Email",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "502": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/purchase-orders/{id}/receive": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Books every included line into its batch, marks the order delivered and returns the reconciliation document.\nformat=html returns a printable page; format=pdf returns the same document as PDF.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json",
                    "text/html",
                    "application/pdf"
                ],
                "tags": [
                    "receiving"
                ],
                "summary": "Confirm a delivery",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "type": "string",
                        "description": "Response format",
                        "name": "format",
                        "in": "query",
                        "enum": [
                            "json",
                            "html",
                            "pdf"
                        ],
                        "default": "json"
                    },
                    {
                        "description": "Operator adjustments",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "406": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/purchase-orders/{id}/receiving": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Every line included at its ordered quantity with a generated batch number",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "receiving"
                ],
                "summary": "Default receiving lines",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/purchase-orders/{id}/receiving/preview": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Computes discrepancies, line costs and the verified total without writing anything",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "receiving"
                ],
                "summary": "Preview a delivery",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "description": "Operator adjustments",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/purchase-orders/{id}/reject": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "A reason is required",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "purchase-orders"
                ],
                "summary": "Reject purchase order",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Purchase order ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "description": "Reason",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/stream/{collection}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Sends the full collection on connect and after every change, plus periodic heartbeats.\nThe access token may be passed as ?access_token= when headers cannot be set.",
                "produces": [
                    "text/event-stream"
                ],
                "tags": [
                    "stream"
                ],
                "summary": "Subscribe to a collection via Server-Sent Events",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Collection",
                        "name": "collection",
                        "in": "path",
                        "required": true,
                        "enum": [
                            "inventory",
                            "purchaseOrders",
                            "suppliers",
                            "menu",
                            "budgets",
                            "activityLogs"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "SSE stream",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/suppliers": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "?approved=true restricts the list to approved suppliers",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "suppliers"
                ],
                "summary": "List suppliers",
                "parameters": [
                    {
                        "type": "boolean",
                        "description": "Only approved suppliers",
                        "name": "approved",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "New suppliers start unapproved",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "suppliers"
                ],
                "summary": "Create supplier",
                "parameters": [
                    {
                        "description": "Supplier",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/suppliers/approved": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "suppliers"
                ],
                "summary": "List approved suppliers",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/suppliers/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "suppliers"
                ],
                "summary": "Get supplier by ID",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Supplier ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "suppliers"
                ],
                "summary": "Update supplier",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Supplier ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    },
                    {
                        "description": "Changes",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "suppliers"
                ],
                "summary": "Delete supplier",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Supplier ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/suppliers/{id}/approve": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Only approved suppliers can receive purchase orders",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "suppliers"
                ],
                "summary": "Approve supplier",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Supplier ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/suppliers/{id}/items": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "suppliers"
                ],
                "summary": "Inventory items sourced from a supplier",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Supplier ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/ws/{collection}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Pushes a JSON snapshot message on connect and after every change. Incoming messages are ignored.",
                "tags": [
                    "stream"
                ],
                "summary": "Subscribe to a collection via WebSocket",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Collection",
                        "name": "collection",
                        "in": "path",
                        "required": true,
                        "enum": [
                            "inventory",
                            "purchaseOrders",
                            "suppliers",
                            "menu",
                            "budgets",
                            "activityLogs"
                        ]
                    }
                ],
                "responses": {
                    "101": {
                        "description": "Switching Protocols",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token authentication. Format: \"Bearer {token}\"",
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
	Title:            "Hotel Inventory API",
	Description:      "Inventory, purchasing and receiving backend for hotel kitchens.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
