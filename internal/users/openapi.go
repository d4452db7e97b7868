package users

import "github.com/JaimeStill/triage/pkg/openapi"

var schemas = map[string]*openapi.Schema{
	"User": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "string", Format: "uuid"},
			"email":      {Type: "string", Format: "email"},
			"created_at": {Type: "string", Format: "date-time"},
		},
	},
	"Credentials": {
		Type:     "object",
		Required: []string{"email", "password"},
		Properties: map[string]*openapi.Schema{
			"email":    {Type: "string", Format: "email"},
			"password": {Type: "string", MinLength: new(minPasswordLength), MaxLength: new(maxPasswordLength)},
		},
	},
	"Token": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"access_token": {Type: "string"},
			"token_type":   {Type: "string", Example: "bearer"},
		},
	},
}

var (
	specRegister = &openapi.Operation{
		Summary:     "Register user",
		RequestBody: openapi.RequestBodyJSON("Credentials", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Registered user", "User"),
			400: openapi.ResponseRef("BadRequest"),
		},
	}

	specLogin = &openapi.Operation{
		Summary:     "Log in",
		Description: "Accepts an OAuth2 password form (username, password) or JSON credentials.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.SchemaRef("Credentials")},
				"application/x-www-form-urlencoded": {Schema: &openapi.Schema{
					Type:     "object",
					Required: []string{"username", "password"},
					Properties: map[string]*openapi.Schema{
						"username": {Type: "string"},
						"password": {Type: "string"},
					},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Access token", "Token"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	}

	specMe = &openapi.Operation{
		Summary:  "Current user",
		Security: openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Authenticated user", "User"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	}
)
