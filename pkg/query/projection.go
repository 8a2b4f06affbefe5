// Package query builds SQL queries from projection maps with automatic
// parameter numbering.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps logical field names to qualified column references
// (alias.column) for a table, optionally joined with others.
type ProjectionMap struct {
	schema        string
	table         string
	alias         string
	columns       map[string]string
	columnList    []string
	joins         []string
	lastJoinAlias string
}

// NewProjectionMap creates a ProjectionMap for schema.table with the given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps a database column to a logical field name. Columns added
// after a Join are qualified with the joined table's alias.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	alias := p.alias
	if len(p.joins) > 0 {
		alias = p.lastJoinAlias
	}
	qualified := fmt.Sprintf("%s.%s", alias, column)
	p.columns[field] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// Join adds a join clause; subsequent Project calls qualify columns with
// the joined alias.
func (p *ProjectionMap) Join(schema, table, alias, joinType, condition string) *ProjectionMap {
	p.joins = append(p.joins, fmt.Sprintf("%s %s.%s %s ON %s", joinType, schema, table, alias, condition))
	p.lastJoinAlias = alias
	return p
}

// Alias returns the base table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// From returns the FROM clause body: the qualified base table plus any joins.
func (p *ProjectionMap) From() string {
	from := fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
	if len(p.joins) > 0 {
		from += " " + strings.Join(p.joins, " ")
	}
	return from
}

// Column resolves a logical field name to its qualified column, or returns
// the input unchanged when unmapped.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.columns[field]; ok {
		return col
	}
	return field
}

// Columns returns every projected column as a comma-separated list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}
