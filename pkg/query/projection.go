// Package query builds parameterized PostgreSQL SELECT statements over a projection
// of view field names onto table columns.
package query

import (
	"fmt"
	"slices"
	"strings"
)

// ProjectionMap maps view field names to alias-qualified columns of a single table.
// Only projected fields can be filtered or sorted on.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	columns    map[string]string
	columnList []string
	fields     []string
}

// NewProjectionMap creates a ProjectionMap for schema.table under alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column to viewName and appends it to the select list.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	p.fields = append(p.fields, viewName)
	return p
}

// Table returns "schema.table alias" for use in a FROM clause.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the qualified column for viewName and whether it is projected.
func (p *ProjectionMap) Column(viewName string) (string, bool) {
	col, ok := p.columns[viewName]
	return col, ok
}

// Columns returns the select list as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

// Fields returns the projected view field names in projection order.
func (p *ProjectionMap) Fields() []string {
	return slices.Clone(p.fields)
}

func (p *ProjectionMap) mustColumn(viewName string) string {
	col, ok := p.columns[viewName]
	if !ok {
		panic(fmt.Sprintf("query: field %q is not projected on %s", viewName, p.table))
	}
	return col
}
