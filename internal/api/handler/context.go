package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jfsc-dain/audit-system/internal/api/middleware"
	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/service"
)

// ctxInstance returns the client instance resolved by the ClientInstance
// middleware. Its absence is a wiring bug, not a client error.
func ctxInstance(c echo.Context) (*service.Instance, error) {
	inst, ok := middleware.Instance(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "client instance not resolved")
	}
	return inst, nil
}

// ctxUser returns the instance and its authenticated profile, failing with
// ErrInvalidSession when the instance is signed out. An instance still
// booting is not treated as signed out.
func ctxUser(c echo.Context) (*service.Instance, domain.UserProfile, error) {
	inst, err := ctxInstance(c)
	if err != nil {
		return nil, domain.UserProfile{}, err
	}
	state := inst.Controller.State()
	if state.Status == domain.StatusUnknown {
		return nil, domain.UserProfile{}, echo.NewHTTPError(http.StatusServiceUnavailable, "session not resolved")
	}
	user, ok := state.User()
	if !ok {
		return nil, domain.UserProfile{}, domain.ErrInvalidSession
	}
	return inst, user, nil
}
