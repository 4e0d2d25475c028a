// Package pagination provides page-window computation shared by repositories
// and the HTTP layer.
package pagination

// Page is a read-only view over one window of a collection.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	PageSize    int
	TotalCount  int
	TotalPages  int
}

// New derives page counters for an already-sliced window.
func New[T any](items []T, totalCount, pageNumber, pageSize int) Page[T] {
	return Page[T]{
		Items:       items,
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages(totalCount, pageSize),
	}
}

// Window slices the 1-based page out of the full collection. Pages past the
// end yield an empty item list but keep the collection counters intact.
func Window[T any](all []T, pageNumber, pageSize int) Page[T] {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	start := (pageNumber - 1) * pageSize
	items := []T{}
	if start < len(all) {
		end := start + pageSize
		if end > len(all) {
			end = len(all)
		}
		items = append(items, all[start:end]...)
	}
	return New(items, len(all), pageNumber, pageSize)
}

// HasPrevious reports whether a page precedes the current one.
func (p Page[T]) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a page follows the current one.
func (p Page[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Metadata is the pagination envelope serialized into the X-Pagination
// response header. Link fields stay null when no adjacent page exists.
type Metadata struct {
	PreviousPageLink *string `json:"previousPageLink"`
	NextPageLink     *string `json:"nextPageLink"`
	TotalCount       int     `json:"totalCount"`
	PageSize         int     `json:"pageSize"`
	CurrentPage      int     `json:"currentPage"`
	TotalPages       int     `json:"totalPages"`
}

func totalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize < 1 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
