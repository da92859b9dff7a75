package query

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type (
	// Page is a requested page window, normalized before use.
	Page struct {
		Page  int
		Limit int
	}

	// Pagination is the metadata returned alongside every list result.
	Pagination struct {
		Page    int  `json:"page"`
		Limit   int  `json:"limit"`
		Total   int  `json:"total"`
		Pages   int  `json:"pages"`
		HasNext bool `json:"hasNext"`
		HasPrev bool `json:"hasPrev"`
	}
)

// Normalize clamps the window to page >= 1 and 1 <= limit <= 100, applying
// defaults for unset values.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of records to skip before the window starts.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginate derives page metadata from a total count and a normalized window.
// A page beyond the last is not an error: it pairs with an empty record slice
// and HasNext=false.
func Paginate(total int, p Page) Pagination {
	p = p.Normalize()
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   total,
		Pages:   pages,
		HasNext: p.Page < pages,
		HasPrev: p.Page > 1,
	}
}
