package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/questionbank/internal/app/models/dto"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page request
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size into the accepted range
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// PageFromQuery reads ?page and ?size. Unparseable values count as absent.
func PageFromQuery(c *gin.Context) Page {
	number, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	return NewPage(number, size)
}

// Offset is the number of rows skipped before this page
func (p Page) Offset() uint64 {
	p = NewPage(p.Number, p.Size)
	return uint64((p.Number - 1) * p.Size)
}

// Limit is the page size after clamping
func (p Page) Limit() uint64 {
	return uint64(NewPage(p.Number, p.Size).Size)
}

// Info describes this page of a result set holding totalItems rows
func (p Page) Info(totalItems int64) dto.PaginationInfo {
	p = NewPage(p.Number, p.Size)
	var totalPages int
	if totalItems > 0 {
		totalPages = int((totalItems + int64(p.Size) - 1) / int64(p.Size))
	}
	return dto.PaginationInfo{
		CurrentPage: p.Number,
		TotalPages:  totalPages,
		PageSize:    p.Size,
		TotalItems:  totalItems,
	}
}
