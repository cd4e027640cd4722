package handler

// ErrorResponse is the error envelope rendered for every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"not the owner"`
	Code  string `json:"code" example:"forbidden"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}
