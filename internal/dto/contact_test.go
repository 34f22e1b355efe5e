package dto

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func bindFilter(t *testing.T, query string) (ContactFilter, error) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/contacts"+query, nil)

	var filter ContactFilter
	err := c.ShouldBindQuery(&filter)
	return filter, err
}

func TestContactFilterDefaults(t *testing.T) {
	filter, err := bindFilter(t, "")
	if err != nil {
		t.Fatalf("Failed to bind empty query: %v", err)
	}
	if filter.Limit != 10 {
		t.Errorf("Expected default limit 10, got %d", filter.Limit)
	}
	if filter.Offset != 0 {
		t.Errorf("Expected default offset 0, got %d", filter.Offset)
	}
}

func TestContactFilterBinding(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{name: "Within bounds", query: "?limit=50&offset=20"},
		{name: "Upper bound", query: "?limit=500"},
		{name: "Lower bound", query: "?limit=10"},
		{name: "Limit too small", query: "?limit=5", wantErr: true},
		{name: "Limit too large", query: "?limit=501", wantErr: true},
		{name: "Negative offset", query: "?offset=-1", wantErr: true},
		{name: "Name filter", query: "?name=ada&secondname=l&email=a%40b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := bindFilter(t, tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr {
				return
			}
			if filter.Limit < 10 || filter.Limit > 500 {
				t.Errorf("Expected bound limit within [10,500], got %d", filter.Limit)
			}
		})
	}
}
