package pagination

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		page      string
		limit     string
		wantPage  int64
		wantLimit int64
	}{
		{"defaults", "1", "10", 1, 10},
		{"garbage page", "abc", "10", 1, 10},
		{"garbage limit", "2", "abc", 2, 10},
		{"zero limit", "1", "0", 1, 10},
		{"negative limit", "1", "-5", 1, 10},
		{"zero page", "0", "10", 1, 10},
		{"negative page", "-3", "10", 1, 10},
		{"limit capped", "1", "10000", 1, 100},
		{"normal", "3", "25", 3, 25},
	}

	for _, tc := range cases {
		page, limit := Parse(tc.page, tc.limit)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Errorf("%s: Parse(%q, %q) = (%d, %d), want (%d, %d)",
				tc.name, tc.page, tc.limit, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}

// A crafted limit must never reach the page-count division as zero.
func TestParse_SkipAndPagesStayDefined(t *testing.T) {
	t.Parallel()

	for _, limitStr := range []string{"0", "-1", "", "zero"} {
		page, limit := Parse("1", limitStr)
		if limit < 1 {
			t.Fatalf("Parse(limit=%q) returned limit %d", limitStr, limit)
		}
		if skip := (page - 1) * limit; skip < 0 {
			t.Errorf("Parse(limit=%q) yields negative skip %d", limitStr, skip)
		}
		if got := TotalPages(42, limit); got < 1 {
			t.Errorf("TotalPages(42, %d) = %d", limit, got)
		}
	}
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		total, limit, want int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{42, 25, 2},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.limit); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}
