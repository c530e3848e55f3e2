package ports

import (
	"context"
	"net/http"
	"net/url"
)

// ForwardRequest is a domain-data call passed through to the backend.
type ForwardRequest struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Body        []byte
}

// ForwardResponse is the backend's answer, relayed verbatim.
type ForwardResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// Backend forwards authenticated calls to the REST API. Implementations
// attach the session's bearer token and report 401 to the invalidation
// source before returning.
type Backend interface {
	Forward(ctx context.Context, req ForwardRequest) (*ForwardResponse, error)
}
