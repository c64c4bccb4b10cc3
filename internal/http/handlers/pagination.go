package handlers

import (
	"math"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"talentpool/internal/common"
)

type Paginator struct {
	DefaultSize int
	MaxSize     int
}

type pageRequest struct {
	Page int
	Size int
}

type pageResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

func (p Paginator) parse(c *gin.Context) (pageRequest, error) {
	req := pageRequest{Page: 1, Size: p.DefaultSize}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return pageRequest{}, common.NewError(common.CodeNotFound, "invalid page", nil)
		}
		req.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			req.Size = size
		}
	}
	if req.Size > p.MaxSize {
		req.Size = p.MaxSize
	}
	if req.Page-1 > math.MaxInt/req.Size {
		return pageRequest{}, common.NewError(common.CodeNotFound, "invalid page", nil)
	}
	return req, nil
}

func (r pageRequest) offset() int {
	return (r.Page - 1) * r.Size
}

// respond builds the envelope and rejects pages past the last one.
func (p Paginator) respond(c *gin.Context, req pageRequest, total int, results any) (pageResponse, error) {
	lastPage := (total + req.Size - 1) / req.Size
	if lastPage < 1 {
		lastPage = 1
	}
	if req.Page > lastPage {
		return pageResponse{}, common.NewError(common.CodeNotFound, "invalid page", nil)
	}
	body := pageResponse{Count: total, Results: results}
	if req.Page < lastPage {
		next := pageURL(c, req.Page+1)
		body.Next = &next
	}
	if req.Page > 1 {
		previous := pageURL(c, req.Page-1)
		body.Previous = &previous
	}
	return body, nil
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded == "http" || forwarded == "https" {
		scheme = forwarded
	}
	query := c.Request.URL.Query()
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}
