package dashboard

// DefaultPerPage is the card grid page size.
const DefaultPerPage = 12

// PageOf is one page of a list.
type PageOf[T any] struct {
	Items      []T
	Page       int // 1-based, clamped into [1, TotalPages]
	TotalPages int // at least 1
	Total      int
}

// HasPrev reports whether a previous page exists.
func (p PageOf[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p PageOf[T]) HasNext() bool { return p.Page < p.TotalPages }

// Page slices items for a 1-based page number. Out of range pages clamp
// to the nearest valid page.
func Page[T any](items []T, page, perPage int) PageOf[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := (len(items) + perPage - 1) / perPage
	if total < 1 {
		total = 1
	}
	page = max(1, min(page, total))

	start := min((page-1)*perPage, len(items))
	end := min(start+perPage, len(items))
	return PageOf[T]{
		Items:      items[start:end],
		Page:       page,
		TotalPages: total,
		Total:      len(items),
	}
}
