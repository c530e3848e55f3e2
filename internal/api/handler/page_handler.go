package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/service"
)

const (
	pageLogin    = "login"
	pageNotFound = "not-found"
)

// PageHandler describes the page a guarded navigation renders. The Guard
// middleware has already decided that the caller may see it.
type PageHandler struct {
	policy *service.RolePolicy
}

func NewPageHandler(policy *service.RolePolicy) *PageHandler {
	return &PageHandler{policy: policy}
}

type pageResponse struct {
	Page  string              `json:"page"`
	Title string              `json:"title"`
	User  *domain.UserProfile `json:"user,omitempty"`
	Menu  []domain.MenuItem   `json:"menu"`
}

// Render handles GET on "/login", every role-owned route and the
// not-found fallback.
//
// @Summary      Guarded page descriptor
// @Tags         pages
// @Produce      json
// @Param        route  path      string  true  "Dashboard route, e.g. audits"
// @Success      200    {object}  pageResponse
// @Success      202    {object}  map[string]string  "Session still resolving"
// @Success      302    "Redirect to login or to the role landing route"
// @Failure      404    {object}  pageResponse
// @Router       /{route} [get]
func (h *PageHandler) Render(c echo.Context) error {
	target := domain.NormalizeRoute(c.Request().URL.Path)

	inst, err := ctxInstance(c)
	if err != nil {
		return err
	}
	user, ok := inst.Controller.CurrentUser()

	if target == domain.RouteLogin {
		resp := pageResponse{Page: pageLogin, Title: "Entrar", Menu: []domain.MenuItem{}}
		if ok {
			resp.User = &user
		}
		return c.JSON(http.StatusOK, resp)
	}
	if !ok {
		// The guard never lets this through; a sign-out raced the request.
		return c.Redirect(http.StatusFound, string(domain.RouteLogin))
	}

	desc := h.policy.Describe(user.Role)
	resp := pageResponse{User: &user, Menu: menuOrEmpty(desc.Menu)}
	if title := desc.Label(target); title != "" && desc.CanAccess(target) {
		resp.Page = string(target)[1:]
		resp.Title = title
		return c.JSON(http.StatusOK, resp)
	}

	resp.Page = pageNotFound
	resp.Title = "Página não encontrada"
	return c.JSON(http.StatusNotFound, resp)
}
