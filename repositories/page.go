package repositories

// Page is a zero-based slice of a result set with the totals the caller
// needs to render paging controls.
type Page[T any] struct {
	Items         []T
	Page          int
	Size          int
	TotalElements int
	TotalPages    int
	First         bool
	Last          bool
}

// NewPage computes totals and first/last flags. TotalPages is
// ceil(total/size), so an empty result set has zero pages.
func NewPage[T any](items []T, page, size, total int) Page[T] {
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	return Page[T]{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

// Map converts the items of a page while keeping the paging metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return Page[U]{
		Items:         items,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
	}
}
