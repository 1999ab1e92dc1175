// Package docs holds the swagger document served under /swagger. It follows
// the layout swag init writes and can be regenerated from the handler
// annotations.
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
		"/healthcheck/": {
			"get": {
				"description": "Liveness plus a ping of every configured backend",
				"produces": [
					"application/json"
				],
				"tags": [
					"health"
				],
				"summary": "Healthcheck",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				}
			}
		},
		"/api/team-performance": {
			"get": {
				"description": "Per-agent performance table of a window with team totals",
				"produces": [
					"application/json"
				],
				"tags": [
					"metrics"
				],
				"summary": "Team performance",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Window start (yyyy-mm-dd, local date-time or ISO with offset)",
						"name": "startDate",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Window end, inclusive",
						"name": "endDate",
						"in": "query"
					}
				]
			}
		},
		"/api/team-performance/export": {
			"get": {
				"description": "Team performance table as an xlsx workbook",
				"produces": [
					"application/json"
				],
				"tags": [
					"metrics"
				],
				"summary": "Export team performance",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Window start (yyyy-mm-dd, local date-time or ISO with offset)",
						"name": "startDate",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Window end, inclusive",
						"name": "endDate",
						"in": "query"
					}
				]
			}
		},
		"/api/shifts": {
			"get": {
				"description": "Team performance per shift merged across local days",
				"produces": [
					"application/json"
				],
				"tags": [
					"metrics"
				],
				"summary": "Shift view",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Window start (yyyy-mm-dd, local date-time or ISO with offset)",
						"name": "startDate",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Window end, inclusive",
						"name": "endDate",
						"in": "query"
					}
				]
			}
		},
		"/api/statistics": {
			"get": {
				"description": "Median first response, reply time and time to close in minutes",
				"produces": [
					"application/json"
				],
				"tags": [
					"metrics"
				],
				"summary": "Median statistics",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Window start (yyyy-mm-dd, local date-time or ISO with offset)",
						"name": "startDate",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Window end, inclusive",
						"name": "endDate",
						"in": "query"
					}
				]
			}
		},
		"/api/archived": {
			"get": {
				"description": "Per-agent table of closed tickets plus the rolling 24h matrix",
				"produces": [
					"application/json"
				],
				"tags": [
					"tickets"
				],
				"summary": "Archived tickets",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Window start (yyyy-mm-dd, local date-time or ISO with offset)",
						"name": "startDate",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Window end, inclusive",
						"name": "endDate",
						"in": "query"
					}
				]
			}
		},
		"/api/hourly": {
			"get": {
				"description": "Closed tickets per agent per local hour over a range of days",
				"produces": [
					"application/json"
				],
				"tags": [
					"tickets"
				],
				"summary": "Hourly matrix",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Window start (yyyy-mm-dd, local date-time or ISO with offset)",
						"name": "startDate",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Window end, inclusive",
						"name": "endDate",
						"in": "query"
					}
				]
			}
		},
		"/api/open-tickets": {
			"get": {
				"description": "Open tickets with each agent's open count",
				"produces": [
					"application/json"
				],
				"tags": [
					"tickets"
				],
				"summary": "Open tickets",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				}
			}
		},
		"/api/plan-summary": {
			"get": {
				"description": "Open tickets grouped by customer plan",
				"produces": [
					"application/json"
				],
				"tags": [
					"tickets"
				],
				"summary": "Plan summary",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				}
			}
		},
		"/api/upsert": {
			"post": {
				"description": "Inserts or overwrites open ticket rows by id",
				"produces": [
					"application/json"
				],
				"tags": [
					"snapshots"
				],
				"summary": "Upsert snapshot rows",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Rows to store",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/snapshots/refresh": {
			"post": {
				"description": "Fetches the open tickets, upserts and indexes them",
				"produces": [
					"application/json"
				],
				"tags": [
					"snapshots"
				],
				"summary": "Refresh snapshots",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				}
			}
		},
		"/api/agents": {
			"get": {
				"description": "Stored open ticket rows ordered by open count",
				"produces": [
					"application/json"
				],
				"tags": [
					"snapshots"
				],
				"summary": "Stored snapshots",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				}
			}
		},
		"/api/snapshots/search": {
			"get": {
				"description": "Full text search over the indexed snapshots",
				"produces": [
					"application/json"
				],
				"tags": [
					"snapshots"
				],
				"summary": "Search snapshots",
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request"
					},
					"502": {
						"description": "Upstream error"
					},
					"503": {
						"description": "Not configured"
					},
					"504": {
						"description": "Upstream timeout"
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Search text",
						"name": "q",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Agent name filter",
						"name": "agent",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Plan filter",
						"name": "plan",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Page number",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Items per page",
						"name": "page_size",
						"in": "query"
					}
				]
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:		  "1.0",
	Host:			 "",
	BasePath:		 "/",
	Schemes:		  []string{},
	Title:			"ticketpulse API",
	Description:	  "Support ticket analytics dashboard over the helpdesk API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:		"{{",
	RightDelim:	   "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
