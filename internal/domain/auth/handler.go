package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"crmdesk/internal/logging"
	"crmdesk/internal/pkg/request"
	"crmdesk/internal/pkg/response"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name     string
	Path     string
	Secure   bool
	SameSite http.SameSite
	TTL      time.Duration
}

type Handler struct {
	service *Service
	cookie  CookieConfig
	log     logrus.FieldLogger
}

func NewHandler(service *Service, cookie CookieConfig, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, cookie: cookie, log: log}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
}

// Register handles POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !request.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	logging.Event(h.log, "user.registered", logrus.Fields{"user_id": user.ID})
	response.Success(c, http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    toUserResponse(user),
	})
}

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !request.BindJSON(c, &req) {
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	h.setCookie(c, token, int(h.cookie.TTL.Seconds()))
	response.Success(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    toUserResponse(user),
	})
}

// Logout handles POST /auth/logout. Sessions are stateless, so this only
// clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     h.cookie.Path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	})
}
