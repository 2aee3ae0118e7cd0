package common

import (
	"net/http"
	"strconv"
)

// PageParams bounds a history listing. Run history is served by a
// DynamoDB GSI query, so paging is limit-based rather than offset-based.
type PageParams struct {
	Limit int `json:"limit"`
}

// ExtractPageParams reads the limit query parameter, clamping it to
// [1, max]. Zero or absent falls back to def.
func ExtractPageParams(r *http.Request, def, max int) PageParams {
	params := PageParams{Limit: def}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			if n > max {
				n = max
			}
			params.Limit = n
		}
	}

	return params
}

// BuildPageMeta builds listing metadata for the response envelope.
func BuildPageMeta(returned, limit int) *PaginationInfo {
	return &PaginationInfo{
		PageSize: limit,
		Total:    returned,
		HasNext:  returned == limit,
	}
}
