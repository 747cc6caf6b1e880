package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 6

// pageParams reads the ?page and ?limit query parameters.
func pageParams(c *gin.Context) (page, limit, offset int) {
	page = 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	limit = defaultPageSize
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	return page, limit, (page - 1) * limit
}

// Page is the paginated response envelope: the total match count, adjacent
// page numbers and one page of results.
type Page struct {
	Count    int64       `json:"count"`
	Next     *int        `json:"next"`
	Previous *int        `json:"previous"`
	Results  interface{} `json:"results"`
}

func paginate(count int64, page, limit int, results interface{}) Page {
	p := Page{Count: count, Results: results}
	if int64(page*limit) < count {
		next := page + 1
		p.Next = &next
	}
	if page > 1 {
		prev := page - 1
		p.Previous = &prev
	}
	return p
}
