package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "RateMyCitra API",
        "description": "Course reviews for CITRA subjects",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Citra", "description": "Subjects with rating statistics"},
        {"name": "Ratings", "description": "Student reviews"},
        {"name": "Reports", "description": "Review moderation"},
        {"name": "Ops", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {"tags": ["Ops"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"tags": ["Ops"], "summary": "Readiness check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Dependency unavailable"}}}
        },
        "/metrics/summary": {
            "get": {"tags": ["Ops"], "summary": "Metrics snapshot", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/citra": {
            "get": {
                "tags": ["Citra"],
                "summary": "List subjects with statistics (joined query)",
                "parameters": [
                    {"name": "sort", "in": "query", "type": "string", "enum": ["none", "name", "ratings"]},
                    {"name": "faculty", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CitraListEnvelope"}},
                    "400": {"description": "Unsupported sort", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/citra/get": {
            "get": {
                "tags": ["Citra"],
                "summary": "List subjects with statistics (per-subject queries)",
                "parameters": [
                    {"name": "sort", "in": "query", "type": "string", "enum": ["none", "name", "ratings"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/CitraListEnvelope"}}}
            }
        },
        "/api/citra/export": {
            "get": {
                "tags": ["Citra"],
                "summary": "Download subject statistics",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "sort", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "File attachment"}}
            }
        },
        "/api/citra/add": {
            "post": {
                "tags": ["Citra"],
                "summary": "Bulk insert subjects",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddCitraListRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"},
                    "401": {"description": "Unauthorized"},
                    "403": {"description": "Admin only"},
                    "409": {"description": "Duplicate course code"}
                }
            }
        },
        "/api/citra/{id}": {
            "get": {
                "tags": ["Citra"],
                "summary": "Get one subject by id or course code",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/api/citra/{id}/reviews": {
            "get": {
                "tags": ["Ratings"],
                "summary": "Newest reviews of a subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/api/search": {
            "get": {
                "tags": ["Citra"],
                "summary": "Search subjects by name or course code",
                "parameters": [
                    {"name": "query", "in": "query", "required": true, "type": "string"},
                    {"name": "sort", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/CitraListEnvelope"}}, "400": {"description": "Missing query"}}
            }
        },
        "/api/rating/add": {
            "post": {
                "tags": ["Ratings"],
                "summary": "Submit a rating",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRatingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload or restricted content"},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Subject not found"}
                }
            }
        },
        "/api/report": {
            "post": {
                "tags": ["Reports"],
                "summary": "Report a review",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Review not found"},
                    "409": {"description": "Already reported"}
                }
            }
        },
        "/api/content/check": {
            "post": {
                "tags": ["Ratings"],
                "summary": "Check review text against the content filter",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ContentCheckRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "CitraSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "courseCode": {"type": "string"},
                "citraType": {"type": "string"},
                "faculty": {"type": "string"},
                "totalRatings": {"type": "integer"},
                "averageQuality": {"type": "number"},
                "averageDifficulty": {"type": "number"},
                "takeAgainPercentage": {"type": "number"},
                "mode": {"type": "string"}
            }
        },
        "CreateCitraRequest": {
            "type": "object",
            "required": ["name", "courseCode", "citraType", "faculty"],
            "properties": {
                "name": {"type": "string"},
                "courseCode": {"type": "string"},
                "citraType": {"type": "string"},
                "faculty": {"type": "string"}
            }
        },
        "AddCitraListRequest": {
            "type": "object",
            "properties": {
                "citraList": {"type": "array", "items": {"$ref": "#/definitions/CreateCitraRequest"}}
            }
        },
        "SubmitRatingRequest": {
            "type": "object",
            "required": ["citraId", "difficulty", "mode", "grade", "review"],
            "properties": {
                "citraId": {"type": "string"},
                "courseCode": {"type": "string"},
                "difficulty": {"type": "integer", "minimum": 1, "maximum": 5},
                "quality": {"type": "integer", "minimum": 1, "maximum": 5},
                "mode": {"type": "string", "enum": ["Online", "Face-to-Face"]},
                "takeAgain": {"type": "boolean"},
                "slidesProvided": {"type": "boolean"},
                "attendanceMandatory": {"type": "boolean"},
                "grade": {"type": "string"},
                "keywords": {"type": "array", "items": {"type": "string"}, "maxItems": 3},
                "review": {"type": "string"}
            }
        },
        "ReportRequest": {
            "type": "object",
            "required": ["reviewId"],
            "properties": {
                "reviewId": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "ContentCheckRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "CitraListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/CitraSummary"}},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
