package handler

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"product-needs/internal/model"
)

// errInvalidPaging is returned for malformed page or size parameters.
var errInvalidPaging = model.NewDomainError(model.ErrCodeInvalidPaging, "Invalid page or size parameter")

// parsePageable reads page, size and sort query parameters. Negative pages
// start at 0, non-positive sizes use the default and sizes are capped.
// Pages whose offset would not fit in an int are rejected.
func parsePageable(q url.Values) (model.Pageable, error) {
	pageable := model.DefaultPageable()

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return pageable, errInvalidPaging
		}
		pageable.Page = max(page, 0)
	}

	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return pageable, errInvalidPaging
		}
		if size > 0 {
			pageable.Size = min(size, model.MaxPageSize)
		}
	}

	// page+1 is also used for the next link.
	if pageable.Page > (math.MaxInt-pageable.Size)/pageable.Size {
		return pageable, errInvalidPaging
	}

	for _, expr := range q["sort"] {
		s, err := model.ParseSort(expr)
		if err != nil {
			return pageable, err
		}
		pageable.Sort = append(pageable.Sort, s)
	}

	return pageable, nil
}

// writePaginationHeaders sets X-Total-Count and an RFC 5988 Link header
// with next, prev, last and first relations.
func writePaginationHeaders[T any](w http.ResponseWriter, r *http.Request, page *model.Page[T]) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(page.Total, 10))

	number := page.Pageable.Page
	size := page.Pageable.Size
	last := max(page.TotalPages()-1, 0)

	var links []string
	if page.HasNext() {
		links = append(links, pageLink(r, number+1, size, "next"))
	}
	if page.HasPrevious() {
		links = append(links, pageLink(r, number-1, size, "prev"))
	}
	links = append(links, pageLink(r, last, size, "last"), pageLink(r, 0, size, "first"))

	w.Header().Set("Link", strings.Join(links, ","))
}

func pageLink(r *http.Request, page, size int, rel string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return fmt.Sprintf(`<%s>; rel="%s"`, u.String(), rel)
}
