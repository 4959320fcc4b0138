package api

import (
	"encoding/json"
	"net/http"
)

// Response is the uniform envelope every endpoint returns, for both success
// and error branches.
type Response[T any] struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       *T     `json:"data"`
}

// Result is a tagged success/error outcome. It is mapped to the transport
// exactly once, in Write, so handlers never build envelopes by hand.
type Result[T any] struct {
	status  int
	message string
	payload *T
}

func Ok[T any](status int, message string, payload T) Result[T] {
	return Result[T]{status: status, message: message, payload: &payload}
}

func Err[T any](status int, message string) Result[T] {
	return Result[T]{status: status, message: message}
}

func (r Result[T]) Write(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.status)
	return json.NewEncoder(w).Encode(Response[T]{
		StatusCode: r.status,
		Message:    r.message,
		Data:       r.payload,
	})
}
