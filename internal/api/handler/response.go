package handler

import "github.com/jfsc-dain/audit-system/internal/core/domain"

// ErrorResponse is the error envelope of every gateway endpoint.
type ErrorResponse struct {
	Error     string       `json:"error"`
	Redirect  domain.Route `json:"redirect,omitempty"`
	Retryable bool         `json:"retryable,omitempty"`
}
