package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestPageOffsetLimit(t *testing.T) {
	tests := []struct {
		page               Page
		wantOff, wantLimit uint64
	}{
		{Page{Number: 1, Size: 10}, 0, 10},
		{Page{Number: 3, Size: 10}, 20, 10},
		{Page{}, 0, DefaultPageSize},
		{Page{Number: 2, Size: MaxPageSize + 1}, DefaultPageSize, DefaultPageSize},
	}
	for _, tt := range tests {
		if off, limit := tt.page.Offset(), tt.page.Limit(); off != tt.wantOff || limit != tt.wantLimit {
			t.Fatalf("%+v: got (%d, %d), want (%d, %d)", tt.page, off, limit, tt.wantOff, tt.wantLimit)
		}
	}
}

func TestPageInfo(t *testing.T) {
	info := NewPage(2, 20).Info(45)
	if info.TotalPages != 3 || info.CurrentPage != 2 || info.PageSize != 20 || info.TotalItems != 45 {
		t.Fatalf("unexpected pagination %+v", info)
	}
	if empty := NewPage(1, 20).Info(0); empty.TotalPages != 0 {
		t.Fatalf("expected zero pages for empty result, got %d", empty.TotalPages)
	}
	if exact := NewPage(1, 20).Info(40); exact.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", exact.TotalPages)
	}
}

func TestPageFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/questions?page=4&size=abc", nil)

	if page := PageFromQuery(c); page != (Page{Number: 4, Size: DefaultPageSize}) {
		t.Fatalf("expected page 4 of %d, got %+v", DefaultPageSize, page)
	}
}

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
	for _, raw := range []string{"soon", "", "0s", "-5m"} {
		if got := ParseDuration(raw, time.Minute); got != time.Minute {
			t.Fatalf("ParseDuration(%q): expected fallback, got %v", raw, got)
		}
	}
}
