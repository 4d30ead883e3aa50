package request

import (
	"net/http"
	"net/url"
	"strconv"

	"review-catalog/pkg/utils"
)

type PaginatedRequest struct {
	Page     int
	PageSize int

	// URL is the absolute request URL, used to build next/previous links.
	URL *url.URL
}

// NewPaginatedRequest reads ?page and ?page_size. A page that is not a
// positive integer is kept as 0 so the service can reject it.
func NewPaginatedRequest(r *http.Request, defaultSize int) *PaginatedRequest {
	query := r.URL.Query()

	page := 1
	if raw := query.Get("page"); raw != "" {
		page = utils.ParseInt(raw, 0)
	}

	return &PaginatedRequest{
		Page:     page,
		PageSize: utils.ClampPageSize(utils.ParseInt(query.Get("page_size"), 0), defaultSize),
		URL:      absoluteURL(r),
	}
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	return utils.ClampPageSize(p.PageSize, 0)
}

// PageURL returns the request URL pointing at another page. Page 1 drops
// the parameter altogether.
func (p PaginatedRequest) PageURL(page int) string {
	if p.URL == nil {
		return ""
	}
	u := *p.URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func absoluteURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		u.Scheme = proto
	}
	return &u
}
