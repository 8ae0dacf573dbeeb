package internal

import (
	"net/http"
	"strconv"
	"strings"
)

// listParams holds common query parameters for list endpoints
type listParams struct {
	limit    int
	offset   int
	q        string
	hasQuery bool
}

// parseListParams parses limit, offset and q from the request.
// Defaults: limit=50 (max 200), offset=0. hasQuery reports whether q was
// sent at all, so an explicit empty q clears the section's search.
func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	limit := 50
	if s := strings.TrimSpace(values.Get("limit")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			if v > 200 {
				v = 200
			}
			limit = v
		}
	}

	offset := 0
	if s := strings.TrimSpace(values.Get("offset")); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	return listParams{
		limit:    limit,
		offset:   offset,
		q:        values.Get("q"),
		hasQuery: values.Has("q"),
	}
}

// page slices items according to limit and offset.
func page[T any](items []T, p listParams) []T {
	if p.offset >= len(items) {
		return []T{}
	}
	end := p.offset + p.limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.offset:end]
}

// sendListResponse writes a paged list with its total count.
func sendListResponse[T any](w http.ResponseWriter, items []T, total int, p listParams) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"total":  total,
			"limit":  p.limit,
			"offset": p.offset,
			"query":  p.q,
		},
	})
}
