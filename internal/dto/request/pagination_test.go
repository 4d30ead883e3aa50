package request

import (
	"net/http/httptest"
	"testing"
)

func TestNewPaginatedRequest(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "/api/v1/titles", 1, 10},
		{"explicit", "/api/v1/titles?page=3&page_size=5", 3, 5},
		{"page size capped", "/api/v1/titles?page_size=1000", 1, 100},
		{"bad page size falls back", "/api/v1/titles?page_size=x", 1, 10},
		{"bad page kept as zero", "/api/v1/titles?page=abc", 0, 10},
		{"negative page kept as zero", "/api/v1/titles?page=-2", 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewPaginatedRequest(httptest.NewRequest("GET", tt.target, nil), 10)
			if req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", req.Page, tt.wantPage)
			}
			if req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestOffsetAndLimit(t *testing.T) {
	p := PaginatedRequest{Page: 3, PageSize: 20}
	if p.Offset() != 40 || p.Limit() != 20 {
		t.Fatalf("Offset/Limit = %d/%d, want 40/20", p.Offset(), p.Limit())
	}
}

func TestPageURL(t *testing.T) {
	r := httptest.NewRequest("GET", "http://api.example.com/api/v1/titles?genre=drama&page=2", nil)
	p := NewPaginatedRequest(r, 10)

	if got, want := p.PageURL(3), "http://api.example.com/api/v1/titles?genre=drama&page=3"; got != want {
		t.Errorf("PageURL(3) = %q, want %q", got, want)
	}
	if got, want := p.PageURL(1), "http://api.example.com/api/v1/titles?genre=drama"; got != want {
		t.Errorf("PageURL(1) = %q, want %q", got, want)
	}
}
