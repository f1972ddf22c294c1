package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tasktrack/tasktrack-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// NewPaginationParams clamps page and limit into range and derives the offset.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	switch {
	case limit < constants.MinPageSize:
		limit = constants.DefaultPageSize
	case limit > constants.MaxPageSize:
		limit = constants.MaxPageSize
	}

	// keep (page-1)*limit within int
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// GetPaginationParams extracts pagination parameters from the query string.
// Unparseable values fall back to defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	return NewPaginationParams(page, limit)
}
