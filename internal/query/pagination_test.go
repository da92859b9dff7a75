package query

import "testing"

func TestPaginate(t *testing.T) {
	cases := []struct {
		total, page, limit int
		pages              int
		hasNext, hasPrev   bool
	}{
		{0, 1, 10, 0, false, false},
		{1, 1, 10, 1, false, false},
		{10, 1, 10, 1, false, false},
		{11, 1, 10, 2, true, false},
		{95, 2, 10, 10, true, true},
		{95, 10, 10, 10, false, true},
		{95, 50, 10, 10, false, true}, // beyond last page: accepted, empty slice upstream
		{3, 1, 1, 3, true, false},
	}
	for _, tc := range cases {
		got := Paginate(tc.total, Page{Page: tc.page, Limit: tc.limit})
		if got.Pages != tc.pages || got.HasNext != tc.hasNext || got.HasPrev != tc.hasPrev {
			t.Fatalf("total=%d page=%d limit=%d: got %+v", tc.total, tc.page, tc.limit, got)
		}
		if got.Total != tc.total {
			t.Fatalf("total mismatch: %+v", got)
		}
	}
}

func TestPaginateCeil(t *testing.T) {
	// pages == ceil(total/limit) across a sweep
	for total := 0; total <= 50; total++ {
		for limit := 1; limit <= 7; limit++ {
			want := (total + limit - 1) / limit
			got := Paginate(total, Page{Page: 1, Limit: limit})
			if got.Pages != want {
				t.Fatalf("total=%d limit=%d: pages=%d want %d", total, limit, got.Pages, want)
			}
		}
	}
}

func TestPageNormalize(t *testing.T) {
	p := Page{Page: 0, Limit: 0}.Normalize()
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("got %+v", p)
	}
	p = Page{Page: -3, Limit: 5000}.Normalize()
	if p.Page != 1 || p.Limit != MaxLimit {
		t.Fatalf("got %+v", p)
	}
}

func TestPageOffset(t *testing.T) {
	if got := (Page{Page: 1, Limit: 10}).Offset(); got != 0 {
		t.Fatalf("got %d", got)
	}
	if got := (Page{Page: 4, Limit: 25}).Offset(); got != 75 {
		t.Fatalf("got %d", got)
	}
}
