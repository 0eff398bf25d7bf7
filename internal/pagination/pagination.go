package pagination

import "strings"

// Direction is a sort direction for paginated queries.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// ParseDirection normalizes a direction string, defaulting to DESC.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(ASC)) {
		return ASC
	}
	return DESC
}

// PageRequest describes one requested page of a sorted result set.
// Page is zero-based.
type PageRequest struct {
	Page      int
	Size      int
	Sort      string
	Direction Direction
}

// NewPageRequest builds a PageRequest, falling back to sane defaults
// for out-of-range page/size values.
func NewPageRequest(page, size int, sort string, direction Direction) PageRequest {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}
	return PageRequest{Page: page, Size: size, Sort: sort, Direction: direction}
}

// Offset returns the number of elements preceding this page.
func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// Page is one page of results together with its pagination metadata.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"isLastPage"`
}

// NewPage assembles a Page from already-sliced content and the total
// element count of the full result set.
func NewPage[T any](content []T, req PageRequest, totalElements int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := int((totalElements + int64(req.Size) - 1) / int64(req.Size))
	return Page[T]{
		Content:       content,
		PageNumber:    req.Page,
		PageSize:      req.Size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		Last:          req.Page >= totalPages-1,
	}
}

// Map converts a page of one element type into a page of another,
// preserving the pagination metadata.
func Map[T, U any](p Page[T], f func(T) U) Page[U] {
	content := make([]U, 0, len(p.Content))
	for _, e := range p.Content {
		content = append(content, f(e))
	}
	return Page[U]{
		Content:       content,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Last:          p.Last,
	}
}
