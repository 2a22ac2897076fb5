package store

import (
	"fmt"
	"strings"
)

// ListParams carries the page/limit/search/sort/status query contract shared
// by every admin list endpoint.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
	Status    string
}

func (p ListParams) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.PageSize()
}

func (p ListParams) PageSize() int {
	if p.Limit < 1 {
		return 20
	}
	if p.Limit > 100 {
		return 100
	}
	return p.Limit
}

// orderClause whitelists sortable columns; anything unknown falls back to
// created_at so user input never reaches SQL directly.
func orderClause(sortBy string, allowed map[string]string, sortOrder string) string {
	column, ok := allowed[sortBy]
	if !ok {
		column = allowed["created_at"]
		if column == "" {
			column = "created_at"
		}
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	return " ORDER BY " + column + " " + direction
}

func likePattern(search string) string {
	return "%" + strings.TrimSpace(search) + "%"
}

func limitOffsetClause(existingArgs int) string {
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", existingArgs+1, existingArgs+2)
}

func itoa(value int) string {
	return fmt.Sprintf("%d", value)
}
