package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{name: "defaults", query: "", wantPage: 1, wantSize: 10, wantOffset: 0},
		{name: "explicit", query: "?page=3&page_size=20", wantPage: 3, wantSize: 20, wantOffset: 40},
		{name: "garbage", query: "?page=abc&page_size=-5", wantPage: 1, wantSize: 10, wantOffset: 0},
		{name: "capped", query: "?page=2&page_size=1000", wantPage: 2, wantSize: 100, wantOffset: 100},
		{name: "huge page", query: "?page=9223372036854775807&page_size=100", wantPage: MaxPage, wantSize: 100, wantOffset: (MaxPage - 1) * 100},
		{name: "page past limit", query: "?page=1000001", wantPage: MaxPage, wantSize: 10, wantOffset: (MaxPage - 1) * 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/courses"+tt.query, nil)
			p := FromRequest(r)

			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
			assert.Equal(t, tt.wantSize, p.Limit())
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}

func TestParams_OffsetClamped(t *testing.T) {
	assert.Equal(t, (MaxPage-1)*MaxPageSize, Params{Page: 1 << 60, PageSize: MaxPageSize}.Offset())
	assert.Equal(t, 0, Params{Page: -3, PageSize: 10}.Offset())
}
