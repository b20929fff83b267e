package utils

import (
	"strconv"

	"github.com/MirOrlov/foodgram/config"

	"github.com/gin-gonic/gin"
)

type Page struct {
	Number int
	Size   int
}

// PageFromQuery reads ?page= and ?limit= with the catalog defaults.
func PageFromQuery(c *gin.Context) Page {
	p := Page{Number: 1, Size: config.PageSize}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.Number = n
	}
	if s, err := strconv.Atoi(c.Query("limit")); err == nil && s > 0 {
		if s > config.MaxPageSize {
			s = config.MaxPageSize
		}
		p.Size = s
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

type PaginatedResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewPaginatedResponse builds the {count, next, previous, results} envelope,
// deriving next/previous links from the current request URL.
func NewPaginatedResponse(c *gin.Context, count int64, p Page, results interface{}) PaginatedResponse {
	resp := PaginatedResponse{Count: count, Results: results}

	if int64(p.Offset()+p.Size) < count {
		resp.Next = pageURL(c, p.Number+1)
	}
	if p.Number > 1 {
		resp.Previous = pageURL(c, p.Number-1)
	}
	return resp
}

func pageURL(c *gin.Context, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
