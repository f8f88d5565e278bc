package models

const (
	DefaultPageSize = 20
	MaxPageSize     = 2000
)

// Page is an offset window over an ordered listing.
type Page struct {
	Size       int
	StartIndex int
}

// Normalize replaces out-of-range values with defaults.
func (p Page) Normalize() Page {
	if p.Size < 1 || p.Size > MaxPageSize {
		p.Size = DefaultPageSize
	}
	if p.StartIndex < 0 {
		p.StartIndex = 0
	}
	return p
}

// List is one page of rows together with the total number of matching rows.
type List[T any] struct {
	Count int64 `json:"count"`
	Rows  []T   `json:"rows"`
}
