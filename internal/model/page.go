package model

// Page is a stable, id-ordered slice of users with listing metadata.
type Page struct {
	Items        []User
	TotalItems   int64
	ItemCount    int
	ItemsPerPage int
	TotalPages   int
	CurrentPage  int
}

// NewPage computes listing metadata for one page of users.
func NewPage(items []User, total int64, page, limit int) Page {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Page{
		Items:        items,
		TotalItems:   total,
		ItemCount:    len(items),
		ItemsPerPage: limit,
		TotalPages:   totalPages,
		CurrentPage:  page,
	}
}
