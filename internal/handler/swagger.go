package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/fortuna/fortuna-ledger/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPIServer is one entry of the OpenAPI 3 servers list
type OpenAPIServer struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// openAPIDocument is the OpenAPI 3.0 shape of the registered swagger doc
type openAPIDocument struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []OpenAPIServer        `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// OpenAPIHandler serves the swagger 2.0 doc converted to OpenAPI 3.0
type OpenAPIHandler struct {
	servers []OpenAPIServer
}

// NewOpenAPIHandler creates an OpenAPIHandler advertising the given servers
func NewOpenAPIHandler(servers []OpenAPIServer) *OpenAPIHandler {
	return &OpenAPIHandler{servers: servers}
}

// Serve handles GET /openapi.json
func (h *OpenAPIHandler) Serve(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read API description")
	}

	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return NewInternalError(c, "Failed to parse API description")
	}

	info, _ := swagger2["info"].(map[string]interface{})
	paths, _ := swagger2["paths"].(map[string]interface{})

	components := make(map[string]interface{})
	if schemes, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		components["securitySchemes"] = schemes
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = toOpenAPI3(definitions)
	}

	converted, _ := toOpenAPI3(paths).(map[string]interface{})
	return c.JSON(http.StatusOK, openAPIDocument{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    h.servers,
		Paths:      converted,
		Components: components,
	})
}

// toOpenAPI3 rewrites definition refs to component refs and moves the type
// fields of non-body parameters under schema.
func toOpenAPI3(node interface{}) interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		if _, isParam := v["in"]; isParam && v["name"] != nil && v["in"] != "body" {
			return convertParameter(v)
		}
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				out[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			out[key] = toOpenAPI3(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = toOpenAPI3(item)
		}
		return out
	}
	return node
}

func convertParameter(param map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	schema := make(map[string]interface{})
	for key, value := range param {
		switch key {
		case "name", "in", "description", "required":
			out[key] = value
		case "type", "format", "enum", "default", "minimum", "maximum":
			schema[key] = value
		case "items":
			schema[key] = toOpenAPI3(value)
		}
	}
	if len(schema) > 0 {
		out["schema"] = schema
	}
	return out
}
