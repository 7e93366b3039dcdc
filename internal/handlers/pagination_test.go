package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestPageParamsDefaults(t *testing.T) {
	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", 1, DefaultPageSize},
		{"page=3&pageSize=50", 3, 50},
		{"page=0&pageSize=0", 1, DefaultPageSize},
		{"page=-2&pageSize=-5", 1, DefaultPageSize},
		{"pageSize=9999", 1, MaxPageSize},
		{"page=abc&pageSize=xyz", 1, DefaultPageSize},
	}
	for _, tt := range tests {
		page, pageSize := pageParams(testContext(t, tt.query))
		require.Equal(t, tt.wantPage, page, "query %q", tt.query)
		require.Equal(t, tt.wantPageSize, pageSize, "query %q", tt.query)
	}
}

func TestCreatePaginatedResponse(t *testing.T) {
	c := testContext(t, "page=2&pageSize=10")
	resp := CreatePaginatedResponse(c, []string{"a", "b"}, 25)

	require.Equal(t, int64(25), resp.TotalRows)
	require.Equal(t, 3, resp.TotalPages)
	require.Equal(t, 2, resp.CurrentPage)
	require.Equal(t, 10, resp.PageSize)

	empty := CreatePaginatedResponse(testContext(t, ""), nil, 0)
	require.Zero(t, empty.TotalPages)
	require.Equal(t, 1, empty.CurrentPage)
}
