package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/caxgpt/todo-api/internal/domain"
	"github.com/caxgpt/todo-api/internal/metrics"
	"github.com/caxgpt/todo-api/internal/transport/http/middleware"
	"github.com/caxgpt/todo-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Signup(ctx context.Context, input usecase.SignupInput) (*domain.User, error)
	SendVerificationEmail(ctx context.Context, user *domain.User) error
	VerifyEmail(ctx context.Context, rawToken string) error
	Login(ctx context.Context, username, password string) (*usecase.Session, error)
	TempCode(ctx context.Context, userID uuid.UUID) (string, error)
	ExchangeGrant(ctx context.Context, grantType, code, refreshToken string) (*usecase.Session, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type AuthHandler struct {
	uc     authUsecaser
	logger *slog.Logger
}

func NewAuthHandler(uc authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, logger: logger.With("component", "auth_handler")}
}

type signupRequest struct {
	Username string `json:"username" binding:"required,max=256"`
	Email    string `json:"email"    binding:"required,email"`
	FullName string `json:"full_name"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type userResponse struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

type sessionResponse struct {
	AccessToken  string        `json:"access_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"`
	RefreshToken string        `json:"refresh_token"`
	User         *userResponse `json:"user,omitempty"`
}

func toSessionResponse(s *usecase.Session) sessionResponse {
	resp := sessionResponse{
		AccessToken:  s.AccessToken,
		TokenType:    "bearer",
		ExpiresIn:    s.ExpiresIn,
		RefreshToken: s.RefreshToken,
	}
	if s.User != nil {
		u := toUserResponse(s.User)
		resp.User = &u
	}
	return resp
}

// credentialsException is the single 401 shape of the OAuth grant flow.
func credentialsException(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{
		"detail": gin.H{
			"error":             "invalid_token",
			"error_description": "The access token expired",
		},
	})
}

// missingField reports a request-schema failure: 422, never 401. The
// body mirrors the shape API clients already parse.
func missingField(c *gin.Context, in, field string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"detail": []gin.H{
			{
				"type": "missing",
				"loc":  []string{in, field},
				"msg":  "Field required",
			},
		},
	})
}

// POST /api/oauth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	user, err := h.uc.Signup(c.Request.Context(), usecase.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"detail": errUserExists})
			return
		}
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		h.logger.ErrorContext(c.Request.Context(), "signup", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}
	metrics.SignupsTotal.WithLabelValues("success").Inc()

	// Verification mail is best-effort; the account exists either way.
	if err := h.uc.SendVerificationEmail(c.Request.Context(), user); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "send verification email", "error", err)
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// POST /api/oauth/login (form-encoded)
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	session, err := h.uc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": errIncorrectLogin})
			return
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, toSessionResponse(session))
}

// POST /api/oauth/token (form-encoded)
//
// The missing-grant_type check is the request-schema layer (422); every
// failure past it is the grant layer's single 401 shape.
func (h *AuthHandler) Token(c *gin.Context) {
	grantType := c.PostForm("grant_type")
	if grantType == "" {
		missingField(c, "body", "grant_type")
		return
	}

	session, err := h.uc.ExchangeGrant(
		c.Request.Context(), grantType, c.PostForm("code"), c.PostForm("refresh_token"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidGrant) {
			metrics.TokenExchangesTotal.WithLabelValues(grantType, "failure").Inc()
			credentialsException(c)
			return
		}
		metrics.TokenExchangesTotal.WithLabelValues(grantType, "error").Inc()
		h.logger.ErrorContext(c.Request.Context(), "token exchange", "grant_type", grantType, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}

	metrics.TokenExchangesTotal.WithLabelValues(grantType, "success").Inc()
	c.JSON(http.StatusOK, toSessionResponse(session))
}

// GET /api/oauth/temp-code?user_id=<uuid>
//
// Deliberately unauthenticated: the GPT-action OAuth handoff mints a
// code from a bare user id and immediately exchanges it at /token.
func (h *AuthHandler) TempCode(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		missingField(c, "query", "user_id")
		return
	}

	code, err := h.uc.TempCode(c.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "temp code", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code})
}

// GET /api/auth/verify-email?token=<raw>
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		missingField(c, "query", "token")
		return
	}

	if err := h.uc.VerifyEmail(c.Request.Context(), rawToken); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": errTokenInvalid})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "verify email", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

// GET /api/users/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.uc.CurrentUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authentication credentials"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "current user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
