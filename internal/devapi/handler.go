package devapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string             `json:"token"`
	User  domain.UserProfile `json:"user"`
}

type verifyResponse struct {
	Valid bool               `json:"valid"`
	User  domain.UserProfile `json:"user"`
}

// Handler serves the authentication endpoints.
type Handler struct {
	svc    *AuthService
	logger zerolog.Logger
}

func NewHandler(svc *AuthService, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Login authenticates a user and returns a JWT with the user's profile.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid payload"})
	}

	token, user, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Credenciais inválidas"})
		}
		h.logger.Error().Err(err).Msg("login failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Erro interno do servidor"})
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user.Profile()})
}

// VerifyToken answers 200 with the current profile when the bearer token
// passed BearerAuth and its account still exists.
func (h *Handler) VerifyToken(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	user, err := h.svc.User(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Token inválido ou expirado"})
		}
		h.logger.Error().Err(err).Msg("verify token failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Erro interno do servidor"})
	}
	return c.JSON(http.StatusOK, verifyResponse{Valid: true, User: user.Profile()})
}

// ListAudits is a token-protected sample resource.
func (h *Handler) ListAudits(c echo.Context) error {
	return c.JSON(http.StatusOK, []map[string]string{})
}

// NewRouter builds the development backend. All routes live under basePath
// (for example "/api") to mirror the production layout.
func NewRouter(svc *AuthService, basePath string, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	h := NewHandler(svc, logger)
	auth := BearerAuth(svc)

	g := e.Group(basePath)
	g.POST("/auth/login", h.Login)
	g.GET("/auth/verify-token", h.VerifyToken, auth)
	g.GET("/audits", h.ListAudits, auth)

	return e
}
