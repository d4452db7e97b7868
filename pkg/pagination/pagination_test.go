package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/triage/pkg/pagination"
	"github.com/JaimeStill/triage/pkg/query"
)

var cfg = pagination.Config{DefaultPageSize: 25, MaxPageSize: 200}

func TestConfig_Finalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var c pagination.Config
		require.NoError(t, c.Finalize(nil))
		assert.Equal(t, 25, c.DefaultPageSize)
		assert.Equal(t, 200, c.MaxPageSize)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_PAGE_DEFAULT", "10")
		t.Setenv("TEST_PAGE_MAX", "50")

		var c pagination.Config
		require.NoError(t, c.Finalize(&pagination.ConfigEnv{
			DefaultPageSize: "TEST_PAGE_DEFAULT",
			MaxPageSize:     "TEST_PAGE_MAX",
		}))
		assert.Equal(t, 10, c.DefaultPageSize)
		assert.Equal(t, 50, c.MaxPageSize)
	})

	t.Run("default above max", func(t *testing.T) {
		c := pagination.Config{DefaultPageSize: 300, MaxPageSize: 100}
		assert.ErrorContains(t, c.Finalize(nil), "cannot exceed")
	})
}

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       pagination.PageRequest
		wantPage int
		wantSize int
	}{
		{"zero values", pagination.PageRequest{}, 1, 25},
		{"negative page", pagination.PageRequest{Page: -3, PageSize: 10}, 1, 10},
		{"oversized", pagination.PageRequest{Page: 2, PageSize: 1000}, 2, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Normalize(cfg)
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantSize, req.PageSize)
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{
		"page":      {"3"},
		"page_size": {"5"},
		"search":    {"outage"},
		"sort":      {"-created_at"},
	}

	req := pagination.PageRequestFromQuery(values, cfg)

	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 5, req.PageSize)
	require.NotNil(t, req.Search)
	assert.Equal(t, "outage", *req.Search)
	assert.Equal(t, pagination.SortFields{{Field: "created_at", Descending: true}}, req.Sort)
}

func TestSortFields_UnmarshalJSON(t *testing.T) {
	t.Run("string form", func(t *testing.T) {
		var req pagination.PageRequest
		require.NoError(t, json.Unmarshal([]byte(`{"sort":"severity,-created_at"}`), &req))
		assert.Equal(t, pagination.SortFields{
			{Field: "severity"},
			{Field: "created_at", Descending: true},
		}, req.Sort)
	})

	t.Run("array form", func(t *testing.T) {
		var req pagination.PageRequest
		require.NoError(t, json.Unmarshal([]byte(`{"sort":[{"field":"text","descending":true}]}`), &req))
		assert.Equal(t, pagination.SortFields{query.SortField{Field: "text", Descending: true}}, req.Sort)
	})
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pageSize  int
		wantPages int
	}{
		{"empty", 0, 10, 1},
		{"exact", 20, 10, 2},
		{"remainder", 21, 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult[string](nil, tt.total, 1, tt.pageSize)
			assert.Equal(t, tt.wantPages, result.TotalPages)
			assert.NotNil(t, result.Data)
		})
	}
}
