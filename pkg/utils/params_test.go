package utils

import (
	"net/url"
	"testing"
)

func TestParseListParams_Defaults(t *testing.T) {
	params, tagErr := ParseListParams(url.Values{}, "name_pattern")
	if tagErr != nil {
		t.Fatalf("unexpected tag error: %v", tagErr)
	}
	if params.Page != 0 || params.PageOffset != 0 || params.OrderBy != "" || params.SortBy != "" {
		t.Errorf("expected zero params for empty query, got %+v", params)
	}
	if params.Active != nil || params.Pattern != "" {
		t.Errorf("expected no filters, got %+v", params)
	}
}

func TestParseListParams_FullQuery(t *testing.T) {
	q := url.Values{}
	q.Set("page_number", "2")
	q.Set("page_offset", "10")
	q.Set("orderby", "-1")
	q.Set("sortby", "createdAt")
	q.Set("active", "true")
	q.Set("name_pattern", "^Foo")

	params, tagErr := ParseListParams(q, "name_pattern")
	if tagErr != nil {
		t.Fatalf("unexpected tag error: %v", tagErr)
	}
	if params.Page != 2 || params.PageOffset != 10 {
		t.Errorf("pagination = %d/%d", params.Page, params.PageOffset)
	}
	if params.OrderBy != "DESC" || params.SortBy != "created_at" {
		t.Errorf("sorting = %s/%s", params.OrderBy, params.SortBy)
	}
	if params.Active == nil || !*params.Active {
		t.Errorf("active = %v", params.Active)
	}
	if params.Pattern != "^Foo" {
		t.Errorf("pattern = %q", params.Pattern)
	}
}

func TestParseListParams_TagErrors(t *testing.T) {
	tests := []struct {
		name    string
		orderby string
		sortby  string
		wantErr bool
	}{
		{"valid ascending by name", "1", "name", false},
		{"orderby out of range", "2", "name", true},
		{"sortby not allow-listed", "1", "id", true},
		{"sortby alone is ignored", "", "name", false},
		{"orderby alone is ignored", "1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			if tt.orderby != "" {
				q.Set("orderby", tt.orderby)
			}
			if tt.sortby != "" {
				q.Set("sortby", tt.sortby)
			}

			_, tagErr := ParseListParams(q, "name_pattern")
			if (tagErr != nil) != tt.wantErr {
				t.Errorf("tag error = %v, wantErr %v", tagErr, tt.wantErr)
			}
		})
	}
}

func TestParseListParams_InvalidActive(t *testing.T) {
	q := url.Values{}
	q.Set("active", "maybe")

	_, tagErr := ParseListParams(q, "name_pattern")
	if tagErr == nil {
		t.Fatal("expected a tag error for non-boolean active")
	}
	if _, ok := tagErr["active"]; !ok {
		t.Errorf("expected active field error, got %v", tagErr)
	}
}

func TestParseListParams_IgnoresBadPagination(t *testing.T) {
	q := url.Values{}
	q.Set("page_number", "zero")
	q.Set("page_offset", "-5")

	params, tagErr := ParseListParams(q, "name_pattern")
	if tagErr != nil {
		t.Fatalf("unexpected tag error: %v", tagErr)
	}
	if params.Page != 0 || params.PageOffset != 0 {
		t.Errorf("expected defaults for unusable pagination, got %+v", params)
	}
}
