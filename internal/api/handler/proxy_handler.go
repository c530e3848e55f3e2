package handler

import (
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/core/service"
)

const maxProxyBody = 10 << 20

// ProxyHandler forwards domain-data calls to the backend through the
// session-bound transport of the calling client instance.
type ProxyHandler struct {
	policy *service.RolePolicy
}

func NewProxyHandler(policy *service.RolePolicy) *ProxyHandler {
	return &ProxyHandler{policy: policy}
}

// Forward handles ANY /api/*.
//
// A backend 401 signs the instance out before this handler answers, so the
// response already carries the redirect to /login.
//
// @Summary      Backend pass-through
// @Tags         api
// @Produce      json
// @Param        path  path  string  true  "Backend path below the API base URL"
// @Success      200   "Backend response, relayed verbatim"
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      502   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /api/{path} [get]
func (h *ProxyHandler) Forward(c echo.Context) error {
	inst, user, err := ctxUser(c)
	if err != nil {
		return err
	}

	resource, ok := resourcePath(c.Param("*"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resource path")
	}
	if !h.policy.CanUseResource(user.Role, resource) {
		return domain.ErrForbidden
	}

	req := c.Request()
	var body []byte
	if req.Body != nil && req.Method != http.MethodGet && req.Method != http.MethodHead {
		body, err = io.ReadAll(http.MaxBytesReader(c.Response(), req.Body, maxProxyBody))
		if err != nil {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
		}
	}

	resp, err := inst.Backend.Forward(req.Context(), ports.ForwardRequest{
		Method:      req.Method,
		Path:        resource,
		Query:       req.URL.Query(),
		ContentType: req.Header.Get(echo.HeaderContentType),
		Body:        body,
	})
	if err != nil {
		return err
	}

	contentType := resp.Header.Get(echo.HeaderContentType)
	if len(resp.Body) == 0 {
		return c.NoContent(resp.Status)
	}
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Blob(resp.Status, contentType, resp.Body)
}

// resourcePath resolves the wildcard into the rooted backend path that is
// both checked and forwarded. Dot segments are resolved before the role
// check; anything still escaped after one decode is refused.
func resourcePath(param string) (string, bool) {
	if strings.Contains(param, "%") {
		unescaped, err := url.PathUnescape(param)
		if err != nil {
			return "", false
		}
		param = unescaped
	}
	cleaned := path.Clean("/" + param)
	if strings.ContainsAny(cleaned, "%?#\\") {
		return "", false
	}
	return cleaned, true
}
