package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harshini-A12/Stylesense/internal/account"
	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/middleware"
	"github.com/Harshini-A12/Stylesense/internal/session"
)

// SignupRequest 는 가입 요청 본문이다.
type SignupRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginRequest 는 로그인 요청 본문이다.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 는 로그인 응답이다. Token 은 세션 ID와 같다.
type LoginResponse struct {
	Token   string        `json:"token"`
	Session *session.Info `json:"session"`
}

// AuthHandler 가입/로그인/로그아웃 HTTP 핸들러
type AuthHandler struct {
	cfg      *config.Config
	accounts *account.Service
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthHandler 인증 핸들러 생성
func NewAuthHandler(cfg *config.Config, accounts *account.Service, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:      cfg,
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
	}
}

// RegisterRoutes 인증 라우트 등록
// 로그인은 무차별 대입 제한을, 로그아웃/내 정보는 세션 인증을 거친다.
func (h *AuthHandler) RegisterRoutes(router *gin.Engine, sessionAuth gin.HandlerFunc) {
	group := router.Group("/api/auth")
	group.POST("/signup", h.handleSignup)
	group.POST("/login", middleware.LoginRateLimit(h.cfg), h.handleLogin)

	authed := group.Group("")
	authed.Use(sessionAuth)
	authed.POST("/logout", h.handleLogout)
	authed.GET("/me", h.handleMe)
}

// handleSignup 신규 가입
func (h *AuthHandler) handleSignup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// handleLogin 로그인 후 세션 발급
// 세션 ID는 쿠키와 응답 본문 양쪽으로 전달한다. SPA는 본문 토큰을,
// 템플릿 렌더링 클라이언트는 쿠키를 쓴다.
func (h *AuthHandler) handleLogin(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	info, err := h.sessions.Create(c.Request.Context(), user.Email)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	h.setSessionCookie(c, info.ID, h.cookieMaxAge())
	c.JSON(http.StatusOK, LoginResponse{Token: info.ID, Session: info})
}

// handleLogout 세션 삭제
func (h *AuthHandler) handleLogout(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	if err := h.sessions.Delete(c.Request.Context(), sessionID); err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// handleMe 현재 세션의 사용자 정보 조회
func (h *AuthHandler) handleMe(c *gin.Context) {
	info, err := h.sessions.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *AuthHandler) cookieMaxAge() int {
	return h.cfg.Session.SessionTTLMinutes * 60
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.cfg.HTTP.CookieSecure, true)
}

func (h *AuthHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("auth_request_failed", "err", err)
}
