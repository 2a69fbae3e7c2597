package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// PaginatedResponse wraps list results with pagination metadata.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination contains offset-based pagination info.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// paginate slices items by the offset/limit query parameters, sets the Link
// header and writes the wrapped response.
func paginate[T any](c *fiber.Ctx, items []T) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", defaultPageLimit)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	total := len(items)
	page := []T{}
	if offset < total {
		page = items[offset:min(offset+limit, total)]
	}

	pg := Pagination{Offset: offset, Limit: limit, Total: total}
	SetLinkHeaders(c, pg)
	return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
}

// SetLinkHeaders adds RFC 8288 Link headers for paginated responses.
// Query parameters other than offset and limit are carried over.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	base := c.Path()
	extra := url.Values{}
	for k, v := range c.Queries() {
		if k != "offset" && k != "limit" {
			extra.Set(k, v)
		}
	}

	link := func(offset int, rel string) string {
		q := url.Values{}
		for k, v := range extra {
			q[k] = v
		}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(p.Limit))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, base, q.Encode(), rel)
	}

	links := []string{link(0, "first")}
	if p.Offset > 0 {
		links = append(links, link(max(p.Offset-p.Limit, 0), "prev"))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, link(p.Offset+p.Limit, "next"))
	}
	links = append(links, link(max(p.Total-p.Limit, 0), "last"))

	c.Set("Link", strings.Join(links, ", "))
}
