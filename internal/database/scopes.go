package database

import (
	"github.com/tasktrack/tasktrack-api/internal/utils"
	"gorm.io/gorm"
)

// NewestFirst orders rows by creation time, most recent first; id breaks
// ties so that pages do not overlap.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// Paginate limits a query to one page. A non-positive limit leaves the
// query unbounded.
func Paginate(page utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page.Limit <= 0 {
			return db
		}
		return db.Offset(page.Offset).Limit(page.Limit)
	}
}
