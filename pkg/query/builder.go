package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// placeholder marks a bind parameter inside a condition; Builder numbers
// them $1, $2, ... in the order conditions were added. Projected expressions
// must not contain it.
const placeholder = '?'

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type condition struct {
	clause string
	args   []any
}

// SortField is one ORDER BY entry. Field is a projected property name;
// fields the projection does not know are dropped so client supplied sort
// strings never reach the SQL text.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses "name,-updated" into sort fields; a leading "-"
// sorts descending. Blank entries are skipped and empty input yields nil.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Builder accumulates AND-ed conditions and ordering for a projection.
// Methods that receive a nil or empty value add nothing, so optional
// filters can be applied unconditionally.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder that orders by defaultSort unless
// OrderByFields supplies a usable order.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, defaultSort: defaultSort}
}

// OrderByFields replaces the default order.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereEquals matches field against value.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.where(b.projection.Column(field)+" = ?", value)
}

// WhereAny matches value against any element of an array column.
func (b *Builder) WhereAny(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.where("? = ANY("+b.projection.Column(field)+")", value)
}

// WhereSearch matches search as a case-insensitive substring of any of
// fields. LIKE wildcards in search are matched literally.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + likeEscaper.Replace(*search) + "%"
	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		clauses[i] = b.projection.Column(field) + " ILIKE ?"
		args[i] = pattern
	}
	return b.where("("+strings.Join(clauses, " OR ")+")", args...)
}

// Build returns the SELECT statement with conditions and ordering.
func (b *Builder) Build() (string, []any) {
	where, args := b.whereClause()
	return b.selectFrom() + where + b.orderBy(), args
}

// BuildCount returns a COUNT(*) over the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.whereClause()
	return "SELECT COUNT(*) FROM " + b.projection.Table() + where, args
}

// BuildPage returns Build limited to the 1-indexed page of pageSize rows.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, pageSize, (page-1)*pageSize), args
}

func (b *Builder) where(clause string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.Table()
}

func (b *Builder) whereClause() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(" WHERE ")
	for i, c := range b.conditions {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		next := 0
		for _, r := range c.clause {
			if r != placeholder {
				sb.WriteRune(r)
				continue
			}
			args = append(args, c.args[next])
			next++
			sb.WriteString("$" + strconv.Itoa(len(args)))
		}
	}
	return sb.String(), args
}

func (b *Builder) orderBy() string {
	cols := b.orderColumns(b.sort)
	if len(cols) == 0 {
		cols = b.orderColumns(b.defaultSort)
	}
	if len(cols) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(cols, ", ")
}

func (b *Builder) orderColumns(fields []SortField) []string {
	var cols []string
	for _, f := range fields {
		if !b.projection.Has(f.Field) {
			continue
		}
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		cols = append(cols, b.projection.Column(f.Field)+dir)
	}
	return cols
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
