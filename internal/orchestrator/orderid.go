package orchestrator

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Order services in the wild return the new order's identifier under many
// names, behind wrapper objects, inside single-element arrays, as a
// Mongo-style {"$oid": "..."} document, or only in the Location header.
// extractOrderID tries them in that order and returns "" when nothing worked.

var orderIDKeys = []string{
	"_id", "id", "order_id", "id_pedido", "pedido_id", "pedidoId",
	"inserted_id", "insertedId", "created_id", "createdId",
}

var orderIDWrappers = []string{"pedido", "data", "result", "payload"}

func extractOrderID(body any) string {
	switch obj := body.(type) {
	case map[string]any:
		for _, k := range orderIDKeys {
			if v, ok := obj[k]; ok {
				if id := orderIDValue(v); id != "" {
					return id
				}
			}
		}
		for _, wrapper := range orderIDWrappers {
			if nested, ok := obj[wrapper].(map[string]any); ok {
				if id := extractOrderID(nested); id != "" {
					return id
				}
			}
		}
	case []any:
		if len(obj) > 0 {
			return extractOrderID(obj[0])
		}
	}
	return ""
}

func orderIDValue(v any) string {
	switch val := v.(type) {
	case map[string]any:
		if oid, ok := val["$oid"].(string); ok {
			return oid
		}
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	}
	return ""
}

// orderIDFromLocation falls back to the last path segment of the Location
// header, e.g. "Location: /pedidos/6520abc123".
func orderIDFromLocation(header http.Header) string {
	loc := header.Get("Location")
	if loc == "" {
		return ""
	}
	parts := strings.Split(loc, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return ""
}
