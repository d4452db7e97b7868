// Package routes declares route groups and registers them on a ServeMux and an OpenAPI document.
package routes

import (
	"net/http"

	"github.com/JaimeStill/triage/pkg/openapi"
)

// Group collects routes under a shared prefix and OpenAPI tags.
// Middleware wraps every route in the group and its children.
type Group struct {
	Prefix     string
	Tags       []string
	Routes     []Route
	Children   []Group
	Middleware []func(http.Handler) http.Handler
	Schemas    map[string]*openapi.Schema
}

// Register adds every route of groups to mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		walk(group, "", nil, nil, func(pattern string, route Route, wrap []func(http.Handler) http.Handler, _ []string) {
			var h http.Handler = route.Handler
			for i := len(wrap) - 1; i >= 0; i-- {
				h = wrap[i](h)
			}
			mux.Handle(route.Method+" "+pattern, h)
		})
	}
}

// Describe adds every documented route of groups to spec, prefixing paths with basePath.
// Group tags are applied to operations that declare none.
func Describe(spec *openapi.Spec, basePath string, groups ...Group) {
	for _, group := range groups {
		if len(group.Schemas) > 0 {
			spec.Components.AddSchemas(group.Schemas)
		}
		walk(group, "", nil, nil, func(pattern string, route Route, _ []func(http.Handler) http.Handler, tags []string) {
			if route.OpenAPI == nil {
				return
			}
			op := *route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = tags
			}
			spec.AddOperation(route.Method, basePath+pattern, &op)
		})
	}
}

func walk(
	group Group,
	parentPrefix string,
	parentMiddleware []func(http.Handler) http.Handler,
	parentTags []string,
	visit func(pattern string, route Route, wrap []func(http.Handler) http.Handler, tags []string),
) {
	prefix := parentPrefix + group.Prefix

	wrap := append(append([]func(http.Handler) http.Handler{}, parentMiddleware...), group.Middleware...)

	tags := group.Tags
	if len(tags) == 0 {
		tags = parentTags
	}

	for _, route := range group.Routes {
		visit(prefix+route.Pattern, route, wrap, tags)
	}
	for _, child := range group.Children {
		walk(child, prefix, wrap, tags, visit)
	}
}
