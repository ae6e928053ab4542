package pagination

import "gorm.io/gorm"

const (
	defaultSize = 50
	maxSize     = 200
)

// Pagination carries offset paging parameters parsed from list queries.
type Pagination struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
	return p
}

func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	n := p.Normalize()
	return stmt.Offset((n.Page - 1) * n.Size).Limit(n.Size)
}
