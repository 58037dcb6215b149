package application

// DefaultPageSize is used when a caller does not ask for a specific size.
const DefaultPageSize = 10

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items       []T
	TotalPages  int
	CurrentPage int
	Total       int
}

// Paginate returns the page-th window of pageSize items. Pages are 1-based;
// a page below 1 is treated as 1 and a page past the end yields no items.
// An empty input reports page 1 of 0.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	total := len(items)
	if total == 0 {
		return Page[T]{Items: []T{}, TotalPages: 0, CurrentPage: 1, Total: 0}
	}

	totalPages := (total + pageSize - 1) / pageSize

	window := []T{}
	if page <= totalPages {
		start := (page - 1) * pageSize
		end := start + pageSize
		if end > total {
			end = total
		}
		window = make([]T, end-start)
		copy(window, items[start:end])
	}

	return Page[T]{
		Items:       window,
		TotalPages:  totalPages,
		CurrentPage: page,
		Total:       total,
	}
}
