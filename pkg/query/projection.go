// Package query builds parameterized PostgreSQL SELECT statements over a
// projection of view property names onto table columns.
package query

import "strings"

type column struct {
	view string
	expr string
}

// ProjectionMap maps view property names onto select expressions for one
// aliased table. Property names are what clients sort and filter by; only
// projected names ever reach the SQL text.
type ProjectionMap struct {
	table   string
	alias   string
	columns []column
	index   map[string]int
}

// NewProjectionMap starts a projection over schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		table: schema + "." + table,
		alias: alias,
		index: make(map[string]int),
	}
}

// Project maps a table column, qualified by the alias, to viewName.
func (p *ProjectionMap) Project(col, viewName string) *ProjectionMap {
	return p.ProjectExpr(p.alias+"."+col, viewName)
}

// ProjectExpr maps a computed select expression to viewName. The expression
// is used verbatim and references columns through Alias.
func (p *ProjectionMap) ProjectExpr(expr, viewName string) *ProjectionMap {
	if i, ok := p.index[viewName]; ok {
		p.columns[i].expr = expr
		return p
	}
	p.index[viewName] = len(p.columns)
	p.columns = append(p.columns, column{view: viewName, expr: expr})
	return p
}

func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns "schema.table alias" for a FROM clause.
func (p *ProjectionMap) Table() string {
	return p.table + " " + p.alias
}

// Column returns the expression projected as viewName. Unmapped names are
// returned unchanged so callers can pass raw qualified columns.
func (p *ProjectionMap) Column(viewName string) string {
	if i, ok := p.index[viewName]; ok {
		return p.columns[i].expr
	}
	return viewName
}

// Has reports whether viewName is a projected property.
func (p *ProjectionMap) Has(viewName string) bool {
	_, ok := p.index[viewName]
	return ok
}

// Columns joins every select expression in projection order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ColumnList(), ", ")
}

// ColumnList returns the select expressions in projection order.
func (p *ProjectionMap) ColumnList() []string {
	out := make([]string, len(p.columns))
	for i, c := range p.columns {
		out[i] = c.expr
	}
	return out
}
