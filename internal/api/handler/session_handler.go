package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/service"
)

// SessionHandler exposes the session controller of the calling client
// instance: sign-in, sign-out and the current state.
type SessionHandler struct {
	policy *service.RolePolicy
}

func NewSessionHandler(policy *service.RolePolicy) *SessionHandler {
	return &SessionHandler{policy: policy}
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User     domain.UserProfile `json:"user"`
	Redirect domain.Route       `json:"redirect"`
	Menu     []domain.MenuItem  `json:"menu"`
}

type logoutResponse struct {
	Redirect domain.Route `json:"redirect"`
}

type sessionResponse struct {
	Status       string              `json:"status"`
	User         *domain.UserProfile `json:"user,omitempty"`
	DefaultRoute domain.Route        `json:"default_route,omitempty"`
	Menu         []domain.MenuItem   `json:"menu"`
}

// Login handles POST /login.
//
// @Summary      Sign in
// @Description  Exchanges credentials for a session bound to the dain_client cookie.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      502   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	inst, err := ctxInstance(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := inst.Controller.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	desc := h.policy.Describe(session.User.Role)
	return c.JSON(http.StatusOK, loginResponse{
		User:     session.User,
		Redirect: desc.DefaultRoute,
		Menu:     menuOrEmpty(desc.Menu),
	})
}

// Logout handles POST /logout. It always succeeds.
//
// @Summary      Sign out
// @Tags         session
// @Produce      json
// @Success      200  {object}  logoutResponse
// @Router       /logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	inst, err := ctxInstance(c)
	if err != nil {
		return err
	}
	inst.Controller.SignOut(c.Request().Context())
	return c.JSON(http.StatusOK, logoutResponse{Redirect: domain.RouteLogin})
}

// Current handles GET /session. It does not wait for boot: an unresolved
// instance reports status "unknown".
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	inst, err := ctxInstance(c)
	if err != nil {
		return err
	}

	state := inst.Controller.State()
	resp := sessionResponse{Status: state.Status.String(), Menu: []domain.MenuItem{}}
	if user, ok := state.User(); ok {
		desc := h.policy.Describe(user.Role)
		resp.User = &user
		resp.DefaultRoute = desc.DefaultRoute
		resp.Menu = menuOrEmpty(desc.Menu)
	}
	return c.JSON(http.StatusOK, resp)
}

func menuOrEmpty(menu []domain.MenuItem) []domain.MenuItem {
	if menu == nil {
		return []domain.MenuItem{}
	}
	return menu
}
