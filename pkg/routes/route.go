package routes

import (
	"net/http"

	"github.com/JaimeStill/triage/pkg/openapi"
)

// Route binds a method and pattern to a handler. OpenAPI documents the route
// when non-nil.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
