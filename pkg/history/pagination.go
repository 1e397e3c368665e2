package history

// Pagination describes the position of a page in the result set
type Pagination struct {
	Page       int
	TotalPages int
	Total      int
	From       int
	To         int
}

// TotalPages is the ceiling of total over limit
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewPagination computes the position of page given total records
func NewPagination(total, page, limit int) Pagination {
	p := Pagination{
		Page:       page,
		TotalPages: TotalPages(total, limit),
		Total:      total,
	}
	if total > 0 {
		p.From = page*limit + 1
		p.To = p.From + limit - 1
		if p.To > total {
			p.To = total
		}
		if p.From > total {
			p.From, p.To = 0, 0
		}
	}
	return p
}

// HasPrev reports whether a previous page exists
func (p Pagination) HasPrev() bool {
	return p.Page > 0
}

// HasNext reports whether a next page exists
func (p Pagination) HasNext() bool {
	return p.Page+1 < p.TotalPages
}

// Number is the one-based page number shown to the operator
func (p Pagination) Number() int {
	return p.Page + 1
}
