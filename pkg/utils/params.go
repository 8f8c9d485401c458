package utils

import (
	"net/url"
	"strconv"

	"github.com/betcatalog/core/pkg/repository"
)

// ParseListParams maps the query string onto repository list params.
// patternParam names the query parameter carrying the regex filter.
// The orderby/sortby pair is only honored when both are present;
// anything outside the accepted values yields a tag-error field map.
func ParseListParams(q url.Values, patternParam string) (repository.ListParams, map[string]string) {
	var params repository.ListParams

	if page, err := strconv.Atoi(q.Get("page_number")); err == nil && page > 0 {
		params.Page = page
	}
	if offset, err := strconv.Atoi(q.Get("page_offset")); err == nil && offset > 0 {
		params.PageOffset = offset
	}

	if q.Get("orderby") != "" && q.Get("sortby") != "" {
		tagErr := map[string]string{
			"orderby": "should be 1 for ascending or -1 for descending",
			"sortby":  "should be name or createdAt",
		}

		switch q.Get("orderby") {
		case "1":
			params.OrderBy = "ASC"
		case "-1":
			params.OrderBy = "DESC"
		default:
			return params, tagErr
		}

		switch q.Get("sortby") {
		case "name":
			params.SortBy = "name"
		case "createdAt":
			params.SortBy = "created_at"
		default:
			return params, tagErr
		}
	}

	if active := q.Get("active"); active != "" {
		value, err := strconv.ParseBool(active)
		if err != nil {
			return params, map[string]string{"active": "should be true or false"}
		}
		params.Active = &value
	}

	params.Pattern = q.Get(patternParam)

	return params, nil
}
