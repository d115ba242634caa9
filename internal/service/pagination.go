package service

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit and page+1 inside int.
	MaxPage = math.MaxInt/MaxLimit - 1
)

type PageLink struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination is serialized as {} when there is neither a next nor a prev page.
type Pagination struct {
	Next *PageLink `json:"next,omitempty"`
	Prev *PageLink `json:"prev,omitempty"`
}

type PageMeta struct {
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
	Pagination Pagination `json:"pagination"`
}

// NormalizePage applies defaults to unset values and clamps the rest:
// page and limit never drop below 1, page never exceeds MaxPage and limit
// never exceeds MaxLimit.
func NormalizePage(page, limit *int) (int, int) {
	p, l := DefaultPage, DefaultLimit
	if page != nil {
		p = min(max(*page, 1), MaxPage)
	}
	if limit != nil {
		l = min(max(*limit, 1), MaxLimit)
	}
	return p, l
}

func Offset(page, limit int) int { return (page - 1) * limit }

func NewPageMeta(total int64, page, limit int) PageMeta {
	m := PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
	off := int64(Offset(page, limit))
	if off+int64(limit) < total {
		m.Pagination.Next = &PageLink{Page: page + 1, Limit: limit}
	}
	if off > 0 {
		m.Pagination.Prev = &PageLink{Page: page - 1, Limit: limit}
	}
	return m
}
