package domain

import "strings"

type Pagination struct {
	Page     int
	PageSize int
	Sort     string
}

func (f Pagination) SortColumn() string {
	return strings.TrimPrefix(f.Sort, "-")
}

func (f Pagination) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return "DESC"
	}

	return "ASC"
}

func (f Pagination) Limit() int {
	return f.PageSize
}

func (f Pagination) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// SafeSortColumn returns the requested sort column if allowed, otherwise def.
func (f Pagination) SafeSortColumn(allowed []string, def string) string {
	column := f.SortColumn()
	for _, a := range allowed {
		if a == column {
			return column
		}
	}

	return def
}
