package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jfsc-dain/audit-system/internal/api/handler"
	"github.com/jfsc-dain/audit-system/internal/api/middleware"
	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/service"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the backend error taxonomy to HTTP status codes.
//   - Points rejected sessions at /login and forbidden callers at their
//     landing route.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(policy *service.RolePolicy, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, policy, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, policy *service.RolePolicy, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, handler.ErrorResponse{Error: ve.Message}
	}

	switch {
	case errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusBadRequest, handler.ErrorResponse{Error: "Por favor, preencha todos os campos."}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: backendMessage(err, "Falha na autenticação. Verifique suas credenciais.")}
	case errors.Is(err, domain.ErrInvalidSession):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: "Sessão expirada. Faça login novamente.", Redirect: domain.RouteLogin}
	case errors.Is(err, domain.ErrSignInSuperseded):
		return http.StatusConflict, handler.ErrorResponse{Error: "Outro login foi concluído neste navegador. Atualize a página."}
	case errors.Is(err, domain.ErrForbidden):
		resp := handler.ErrorResponse{Error: "Você não tem permissão para realizar esta ação."}
		if inst, ok := middleware.Instance(c); ok {
			if user, ok := inst.Controller.CurrentUser(); ok {
				resp.Redirect = policy.DefaultRoute(user.Role)
			}
		}
		return http.StatusForbidden, resp
	case errors.Is(err, domain.ErrNetwork):
		return http.StatusServiceUnavailable, handler.ErrorResponse{
			Error:     "Não foi possível conectar ao servidor. Verifique sua conexão com a internet.",
			Retryable: true,
		}
	case errors.Is(err, domain.ErrServer):
		return http.StatusBadGateway, handler.ErrorResponse{
			Error:     backendMessage(err, "Erro interno do servidor. Tente novamente mais tarde."),
			Retryable: true,
		}
	case errors.Is(err, domain.ErrRejected):
		code := http.StatusBadRequest
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			code = apiErr.Status
		}
		return code, handler.ErrorResponse{Error: backendMessage(err, "Dados inválidos. Verifique as informações e tente novamente.")}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("client_id", middleware.ClientID(c)).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorResponse{Error: "internal server error"}
}

// backendMessage returns the message the backend attached to err, or
// fallback.
func backendMessage(err error, fallback string) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
