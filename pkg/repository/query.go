package repository

import (
	"fmt"
	"strings"
)

// Sort allow-list. Only these identifiers may ever be interpolated into
// ORDER BY; everything else in the query is a bound parameter.
var sortColumns = map[string]bool{
	"name":       true,
	"created_at": true,
}

// ListParams carries the paging, sorting and filtering knobs of the list
// endpoints. Zero values fall back to page 1, 20 rows, name ascending.
type ListParams struct {
	Page       int
	PageOffset int
	OrderBy    string // ASC or DESC
	SortBy     string // name or created_at
	Active     *bool
	Pattern    string // case-insensitive regex against the name columns
	EventID    string // exact parent-event scope; selections only
}

func (p ListParams) normalized() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageOffset < 1 {
		p.PageOffset = 20
	}
	if p.OrderBy == "" {
		p.OrderBy = "ASC"
	}
	if p.SortBy == "" {
		p.SortBy = "name"
	}
	return p
}

// buildListQuery renders the paged SELECT and the matching COUNT for one
// table. patternColumns are the columns the regex filter applies to; filter
// values are always bound parameters, never interpolated.
func buildListQuery(table string, columns string, patternColumns []string, p ListParams) (listSQL string, listArgs []any, countSQL string, countArgs []any, err error) {
	p = p.normalized()

	if !sortColumns[p.SortBy] {
		return "", nil, "", nil, fmt.Errorf("unsupported sort column %q", p.SortBy)
	}
	if p.OrderBy != "ASC" && p.OrderBy != "DESC" {
		return "", nil, "", nil, fmt.Errorf("unsupported sort order %q", p.OrderBy)
	}

	var where []string
	var args []any

	if p.Active != nil {
		args = append(args, *p.Active)
		where = append(where, fmt.Sprintf("active = $%d", len(args)))
	}

	if p.EventID != "" {
		args = append(args, p.EventID)
		where = append(where, fmt.Sprintf("event_id = $%d", len(args)))
	}

	if p.Pattern != "" {
		args = append(args, p.Pattern)
		matches := make([]string, len(patternColumns))
		for i, column := range patternColumns {
			matches[i] = fmt.Sprintf("%s ~* $%d", column, len(args))
		}
		where = append(where, "("+strings.Join(matches, " OR ")+")")
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	countSQL = fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, whereSQL)
	countArgs = args

	listArgs = append(append([]any{}, args...), p.PageOffset, (p.Page-1)*p.PageOffset)
	listSQL = fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		columns, table, whereSQL, p.SortBy, p.OrderBy,
		len(listArgs)-1, len(listArgs))

	return listSQL, listArgs, countSQL, countArgs, nil
}
