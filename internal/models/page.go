package models

// Page страница результатов списка.
type Page[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  []T `json:"results"`
}

// NewPage собирает страницу, подменяя nil пустым срезом.
func NewPage[T any](results []T, count, page, pageSize int) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{Count: count, Page: page, PageSize: pageSize, Results: results}
}
