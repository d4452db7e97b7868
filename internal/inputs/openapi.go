package inputs

import (
	"github.com/JaimeStill/triage/internal/classify"
	"github.com/JaimeStill/triage/pkg/openapi"
)

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var (
	categoryEnum = openapi.StringEnum(classify.CategoryValues()...)
	intentEnum   = openapi.StringEnum(classify.IntentValues()...)
	severityEnum = openapi.StringEnum(classify.SeverityValues()...)
	sourceEnum   = openapi.StringEnum(classify.SourceValues()...)
	statusEnum   = openapi.StringEnum(stringsOf(Statuses)...)
	orderValues  = stringsOf(Orders)
)

var schemas = map[string]*openapi.Schema{
	"Input": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "string", Format: "uuid"},
			"user_id":    {Type: "string", Format: "uuid"},
			"text":       {Type: "string"},
			"category":   {Type: "string", Enum: categoryEnum},
			"intent":     {Type: "string", Enum: intentEnum},
			"severity":   {Type: "string", Enum: severityEnum},
			"source":     {Type: "string", Enum: sourceEnum},
			"status":     {Type: "string", Enum: statusEnum},
			"created_at": {Type: "string", Format: "date-time"},
		},
	},
	"InputList": {
		Type:  "array",
		Items: openapi.SchemaRef("Input"),
	},
	"CreateInput": {
		Type:     "object",
		Required: []string{"text"},
		Properties: map[string]*openapi.Schema{
			"text": {Type: "string", MinLength: new(1)},
		},
	},
	"UpdateInput": {
		Type:        "object",
		Description: "Supplying text re-classifies the input; explicit fields override the result.",
		Properties: map[string]*openapi.Schema{
			"text":     {Type: "string", MinLength: new(1)},
			"category": {Type: "string", Enum: categoryEnum},
			"intent":   {Type: "string", Enum: intentEnum},
			"severity": {Type: "string", Enum: severityEnum},
			"source":   {Type: "string", Enum: sourceEnum},
			"status":   {Type: "string", Enum: statusEnum},
		},
	},
	"InputSearch": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"page":      {Type: "integer"},
			"page_size": {Type: "integer"},
			"search":    {Type: "string", Description: "Case-insensitive text search"},
			"sort":      {Type: "string", Example: "severity,-created_at"},
			"category":  {Type: "string", Enum: categoryEnum},
			"intent":    {Type: "string", Enum: intentEnum},
			"severity":  {Type: "string", Enum: severityEnum},
			"source":    {Type: "string", Enum: sourceEnum},
			"status":    {Type: "string", Enum: statusEnum},
		},
	},
	"InputPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef("Input")},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	},
	"DeleteResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"status": {Type: "string", Example: "deleted"},
		},
	},
	"ReclassifyResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"reclassified": {Type: "integer"},
			"changed":      {Type: "integer"},
		},
	},
	"ExportResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"key":   {Type: "string"},
			"count": {Type: "integer"},
			"size":  {Type: "integer"},
			"order": {Type: "string", Enum: openapi.StringEnum(orderValues...)},
		},
	},
	"ExportList": {
		Type: "array",
		Items: &openapi.Schema{
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":           {Type: "string"},
				"size":          {Type: "integer"},
				"last_modified": {Type: "string", Format: "date-time"},
			},
		},
	},
}

func secured(op *openapi.Operation) *openapi.Operation {
	op.Security = openapi.BearerAuth
	op.Responses[401] = openapi.ResponseRef("Unauthorized")
	return op
}

var orderParam = openapi.EnumParam("order", "Ranking policy (default dashboard)", orderValues...)

var (
	specCreate = secured(&openapi.Operation{
		Summary:     "Create input",
		Description: "Classifies the text and stores a new open input.",
		RequestBody: openapi.RequestBodyJSON("CreateInput", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Created input", "Input"),
			400: openapi.ResponseRef("BadRequest"),
		},
	})

	specList = secured(&openapi.Operation{
		Summary:    "List inputs",
		Parameters: []*openapi.Parameter{orderParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Ranked inputs", "InputList"),
			400: openapi.ResponseRef("BadRequest"),
		},
	})

	specDashboard = secured(&openapi.Operation{
		Summary:     "Dashboard",
		Description: "High severity first, done last, newest first.",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Ranked inputs", "InputList"),
		},
	})

	specSearch = secured(&openapi.Operation{
		Summary:     "Search inputs",
		RequestBody: openapi.RequestBodyJSON("InputSearch", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of inputs", "InputPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	})

	specReclassify = secured(&openapi.Operation{
		Summary: "Reclassify inputs",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Reclassification summary", "ReclassifyResult"),
		},
	})

	specExport = secured(&openapi.Operation{
		Summary:    "Export ranked inputs",
		Parameters: []*openapi.Parameter{orderParam},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Export written", "ExportResult"),
			400: openapi.ResponseRef("BadRequest"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	})

	specExports = secured(&openapi.Operation{
		Summary: "List exports",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Export snapshots", "ExportList"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	})

	specDownload = secured(&openapi.Operation{
		Summary: "Download export",
		Parameters: []*openapi.Parameter{{
			Name:     "name",
			In:       "path",
			Required: true,
			Schema:   &openapi.Schema{Type: "string"},
		}},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Export snapshot", "InputList"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	})

	specFind = secured(&openapi.Operation{
		Summary:    "Find input",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Input ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Input", "Input"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	specUpdate = secured(&openapi.Operation{
		Summary:     "Update input",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Input ID")},
		RequestBody: openapi.RequestBodyJSON("UpdateInput", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated input", "Input"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	specDelete = secured(&openapi.Operation{
		Summary:    "Delete input",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Input ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Deleted", "DeleteResult"),
			404: openapi.ResponseRef("NotFound"),
		},
	})
)
