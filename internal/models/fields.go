// Package models is the data-access layer: per-entity parameterized
// SQL, snake↔camel field translation, and input validation. It is the
// only path by which the rest of the application touches storage.
package models

import (
	"fmt"
	"sort"
	"strings"
)

// translate maps an application-facing payload (camelCase keys) onto
// column names through the entity's translation table. Keys missing
// from the table pass through unchanged.
func translate(data map[string]any, table map[string]string) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if col, ok := table[k]; ok {
			out[col] = v
		} else {
			out[k] = v
		}
	}
	return out
}

// format is the inverse: a storage row (column keys) becomes the
// app-facing record (camelCase keys).
func format(row map[string]any, fields map[string]string) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		if name, ok := fields[k]; ok {
			out[name] = v
		} else {
			out[k] = v
		}
	}
	return out
}

func reverse(table map[string]string) map[string]string {
	out := make(map[string]string, len(table))
	for k, v := range table {
		out[v] = k
	}
	return out
}

// insertClause renders a record as sorted column / placeholder / arg
// lists. Sorting keeps the SQL text deterministic.
func insertClause(rec map[string]any) (cols string, placeholders string, args []any) {
	keys := sortedKeys(rec)
	ph := make([]string, len(keys))
	args = make([]any, len(keys))
	for i, k := range keys {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = rec[k]
	}
	return strings.Join(keys, ", "), strings.Join(ph, ", "), args
}

// setClause renders a partial-update record as a sorted SET list.
func setClause(rec map[string]any) (set string, args []any) {
	keys := sortedKeys(rec)
	parts := make([]string, len(keys))
	args = make([]any, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s = $%d", k, i+1)
		args[i] = rec[k]
	}
	return strings.Join(parts, ", "), args
}

func sortedKeys(rec map[string]any) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cond accumulates optional filter predicates, AND-joined. Absent
// filters never appear in the SQL at all.
type cond struct {
	where []string
	args  []any
}

// eq adds an exact-match predicate.
func (c *cond) eq(col string, v string) {
	if v == "" {
		return
	}
	c.args = append(c.args, v)
	c.where = append(c.where, fmt.Sprintf("%s = $%d", col, len(c.args)))
}

// search adds a case-insensitive substring predicate over one or more
// free-text columns.
func (c *cond) search(v string, cols ...string) {
	if v == "" {
		return
	}
	c.args = append(c.args, "%"+v+"%")
	n := len(c.args)
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, n)
	}
	if len(parts) == 1 {
		c.where = append(c.where, parts[0])
	} else {
		c.where = append(c.where, "("+strings.Join(parts, " OR ")+")")
	}
}

// raw adds an already-rendered predicate referencing the next arg.
func (c *cond) raw(clause string, v any) {
	c.args = append(c.args, v)
	c.where = append(c.where, fmt.Sprintf(clause, len(c.args)))
}

// lit adds a predicate with no bound argument.
func (c *cond) lit(clause string) {
	c.where = append(c.where, clause)
}

func (c *cond) clause() string {
	if len(c.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.where, " AND ")
}

// paging renders LIMIT/OFFSET, appending to the arg list.
func (c *cond) paging(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		c.args = append(c.args, limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(c.args))
	}
	if offset > 0 {
		c.args = append(c.args, offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(c.args))
	}
	return b.String()
}

// strVal pulls a string field out of a loosely-typed payload.
func strVal(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func present(data map[string]any, key string) bool {
	v, ok := data[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) != ""
	}
	return true
}
