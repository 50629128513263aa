// Package pagination разбирает параметры постраничной выдачи списков.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPageSize — размер страницы по умолчанию.
	DefaultPageSize = 10
	// MaxPageSize — максимальный размер страницы.
	MaxPageSize = 100
	// MaxPage — номер последней допустимой страницы, дальше OFFSET не растёт.
	MaxPage = 1_000_000
)

// Params — параметры страницы.
type Params struct {
	Page     int
	PageSize int
}

// Limit возвращает LIMIT для SQL-запроса.
func (p Params) Limit() int {
	return p.PageSize
}

// Offset возвращает OFFSET для SQL-запроса.
func (p Params) Offset() int {
	page := min(max(p.Page, 1), MaxPage)
	return (page - 1) * p.PageSize
}

// FromRequest читает page и page_size из query. Некорректные значения
// заменяются значениями по умолчанию, page ограничен MaxPage,
// page_size ограничен MaxPageSize.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}

	size, err := strconv.Atoi(q.Get("page_size"))
	if err != nil || size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return Params{Page: page, PageSize: size}
}
