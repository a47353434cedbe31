package pagination

// Metadata contains pagination metadata included in API responses.
type Metadata struct {
	Total      int64 `json:"total"`       // Total number of items across all pages
	Page       int   `json:"page"`        // Current page number (1-based)
	Limit      int   `json:"limit"`       // Items per page
	TotalPages int   `json:"total_pages"` // Calculated total number of pages
}

// Response is the JSON envelope of a paginated listing.
type Response[T any] struct {
	Data       []T      `json:"data"`
	Pagination Metadata `json:"pagination"`
}

// TotalPages returns ceil(total/limit), and 1 for an empty listing.
func TotalPages(total int64, limit int) int {
	if total == 0 || limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Page cuts the page p out of items and describes it.
// A page past the end yields an empty, non-nil slice.
func Page[T any](items []T, p Params) ([]T, Metadata) {
	total := len(items)
	start := min(p.Offset(), total)
	end := min(start+p.Limit, total)

	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, Metadata{
		Total:      int64(total),
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(int64(total), p.Limit),
	}
}
