package repository

import (
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes a client-supplied filter over a user's posts.
// Fields, Ops and Values are parallel slices: each triple becomes one
// predicate, all predicates are ANDed. SortFields/SortDirs pair the
// same way. Only whitelisted column names and operators are accepted;
// values are always bound as placeholders, never interpolated.
type SearchQuery struct {
	Fields     []string
	Ops        []string
	Values     []string
	SortFields []string
	SortDirs   []string
	Page       int
	PageSize   int
}

// ErrBadFilter reports a filter expression that names an unknown
// column, an unsupported operator or an unsupported sort direction.
// Handlers translate it to HTTP 400.
var ErrBadFilter = errors.New("unsupported filter expression")

// searchableColumns whitelists the post columns a filter or sort may
// reference. user_id is deliberately absent: ownership scoping is not
// client-controllable.
var searchableColumns = map[string]bool{
	"id":          true,
	"title":       true,
	"description": true,
	"created_at":  true,
}

// supportedOps maps the wire operator to its SQL form. "in" is
// handled separately because it expands to a placeholder list.
var supportedOps = map[string]string{
	"=":    "=",
	"!=":   "!=",
	">":    ">",
	">=":   ">=",
	"<":    "<",
	"<=":   "<=",
	"like": "LIKE",
}

func (q SearchQuery) whereClause() (string, []any, error) {
	if len(q.Fields) != len(q.Ops) || len(q.Fields) != len(q.Values) {
		return "", nil, fmt.Errorf("%w: fields/ops/values length mismatch", ErrBadFilter)
	}
	conds := []string{}
	args := []any{}
	for i, field := range q.Fields {
		if !searchableColumns[field] {
			return "", nil, fmt.Errorf("%w: unknown field %q", ErrBadFilter, field)
		}
		op := strings.ToLower(strings.TrimSpace(q.Ops[i]))
		if op == "in" {
			// "in" values arrive pipe-separated: a|b|c.
			parts := strings.Split(q.Values[i], "|")
			ph := make([]string, len(parts))
			for j, p := range parts {
				ph[j] = "?"
				args = append(args, p)
			}
			conds = append(conds, field+" IN ("+strings.Join(ph, ",")+")")
			continue
		}
		sqlOp, ok := supportedOps[op]
		if !ok {
			return "", nil, fmt.Errorf("%w: operator %q", ErrBadFilter, q.Ops[i])
		}
		conds = append(conds, field+" "+sqlOp+" ?")
		args = append(args, q.Values[i])
	}
	if len(conds) == 0 {
		return "1=1", args, nil
	}
	return strings.Join(conds, " AND "), args, nil
}

func (q SearchQuery) orderClause() (string, error) {
	if len(q.SortFields) != len(q.SortDirs) {
		return "", fmt.Errorf("%w: sort fields/directions length mismatch", ErrBadFilter)
	}
	terms := []string{}
	for i, field := range q.SortFields {
		if !searchableColumns[field] {
			return "", fmt.Errorf("%w: unknown sort field %q", ErrBadFilter, field)
		}
		dir := strings.ToLower(strings.TrimSpace(q.SortDirs[i]))
		switch dir {
		case "asc":
			terms = append(terms, field+" ASC")
		case "desc":
			terms = append(terms, field+" DESC")
		default:
			return "", fmt.Errorf("%w: direction %q", ErrBadFilter, q.SortDirs[i])
		}
	}
	if len(terms) == 0 {
		return " ORDER BY id", nil
	}
	return " ORDER BY " + strings.Join(terms, ", "), nil
}

func (q SearchQuery) page() (limit, offset int) {
	limit = q.PageSize
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
