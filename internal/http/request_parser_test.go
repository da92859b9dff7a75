package http

import (
	"net/http/httptest"
	"strings"
	"testing"

	"gigbook/internal/core"
)

func TestDecodeJSONStrictness(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid object", body: `{"name":"a"}`},
		{name: "unknown field", body: `{"name":"a","extra":1}`, wantErr: true},
		{name: "trailing content", body: `{"name":"a"}{"name":"b"}`, wantErr: true},
		{name: "not json", body: `name=a`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var dst payload
			err := decodeJSON(r, &dst)
			if tt.wantErr {
				if core.KindOf(err) != core.KindInvalidInput {
					t.Fatalf("expected invalid input, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	m, err := parseAmount("150.50")
	if err != nil || m.Cents != 15050 {
		t.Fatalf("parseAmount = %v, %v", m, err)
	}

	for _, bad := range []string{"", "abc", "-5", "1.2.3"} {
		if _, err := parseAmount(bad); err == nil {
			t.Errorf("parseAmount(%q) should fail", bad)
		}
	}
}

func TestParseListOptions(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/?page=2&limit=25&projectId=p1&category=consulting&sortBy=amount&sortDir=asc&startDate=2024-01-01&endDate=2024-01-31", nil)

	opts, err := parseListOptions(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Page != 2 || opts.Limit != 25 {
		t.Errorf("pagination = %d/%d, want 2/25", opts.Page, opts.Limit)
	}
	if opts.ProjectID != "p1" || opts.Category != "consulting" {
		t.Errorf("filters = %q/%q", opts.ProjectID, opts.Category)
	}
	if opts.SortBy != "amount" || opts.SortDir != "asc" {
		t.Errorf("sort = %q/%q", opts.SortBy, opts.SortDir)
	}
	if opts.StartDate.IsZero() || opts.EndDate.IsZero() {
		t.Error("date range should be set")
	}
}

func TestParseListOptionsMalformedNumbersFallBack(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=abc&limit=xyz", nil)
	opts, err := parseListOptions(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Page != 0 || opts.Limit != 0 {
		t.Errorf("malformed ints should fall back to zero, got %d/%d", opts.Page, opts.Limit)
	}
}

func TestParseListOptionsBadDateIsError(t *testing.T) {
	r := httptest.NewRequest("GET", "/?startDate=01-2024", nil)
	if _, err := parseListOptions(r); core.KindOf(err) != core.KindInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
