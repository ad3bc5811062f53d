package handler_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/caxgpt/todo-api/internal/domain"
	"github.com/caxgpt/todo-api/internal/transport/http/handler"
	"github.com/caxgpt/todo-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	signup                func(ctx context.Context, input usecase.SignupInput) (*domain.User, error)
	sendVerificationEmail func(ctx context.Context, user *domain.User) error
	verifyEmail           func(ctx context.Context, rawToken string) error
	login                 func(ctx context.Context, username, password string) (*usecase.Session, error)
	tempCode              func(ctx context.Context, userID uuid.UUID) (string, error)
	exchangeGrant         func(ctx context.Context, grantType, code, refreshToken string) (*usecase.Session, error)
	currentUser           func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

func (f *fakeAuthUsecase) Signup(ctx context.Context, input usecase.SignupInput) (*domain.User, error) {
	return f.signup(ctx, input)
}

func (f *fakeAuthUsecase) SendVerificationEmail(ctx context.Context, user *domain.User) error {
	if f.sendVerificationEmail == nil {
		return nil
	}
	return f.sendVerificationEmail(ctx, user)
}

func (f *fakeAuthUsecase) VerifyEmail(ctx context.Context, rawToken string) error {
	return f.verifyEmail(ctx, rawToken)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, username, password string) (*usecase.Session, error) {
	return f.login(ctx, username, password)
}

func (f *fakeAuthUsecase) TempCode(ctx context.Context, userID uuid.UUID) (string, error) {
	return f.tempCode(ctx, userID)
}

func (f *fakeAuthUsecase) ExchangeGrant(ctx context.Context, grantType, code, refreshToken string) (*usecase.Session, error) {
	return f.exchangeGrant(ctx, grantType, code, refreshToken)
}

func (f *fakeAuthUsecase) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return f.currentUser(ctx, userID)
}

func newTestEngine(uc *fakeAuthUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewAuthHandler(uc, logger)

	r := gin.New()
	r.POST("/api/oauth/signup", h.Signup)
	r.POST("/api/oauth/login", h.Login)
	r.POST("/api/oauth/token", h.Token)
	r.GET("/api/oauth/temp-code", h.TempCode)
	r.GET("/api/auth/verify-email", h.VerifyEmail)
	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

var testSession = &usecase.Session{
	AccessToken:  "access-token",
	RefreshToken: "refresh-token",
	ExpiresIn:    1800,
}

// ---- Login ----

func TestLogin_CorrectCredentials_Returns200WithSession(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Username: "junaid", Email: "junaid@test.local"}
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, username, password string) (*usecase.Session, error) {
			if username != "junaid" || password != "junaid" {
				return nil, domain.ErrInvalidCredentials
			}
			s := *testSession
			s.User = user
			return &s, nil
		},
	}

	w := postForm(newTestEngine(uc), "/api/oauth/login",
		url.Values{"username": {"junaid"}, "password": {"junaid"}})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int    `json:"expires_in"`
		RefreshToken string `json:"refresh_token"`
		User         *struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.AccessToken != "access-token" || body.RefreshToken != "refresh-token" {
		t.Error("response is missing tokens")
	}
	if body.TokenType != "bearer" {
		t.Errorf("token_type = %q, want %q", body.TokenType, "bearer")
	}
	if body.ExpiresIn != 1800 {
		t.Errorf("expires_in = %d, want 1800", body.ExpiresIn)
	}
	if body.User == nil || body.User.Username != "junaid" {
		t.Error("response is missing the user")
	}
}

func TestLogin_WrongPassword_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (*usecase.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	w := postForm(newTestEngine(uc), "/api/oauth/login",
		url.Values{"username": {"junaid"}, "password": {"wrong"}})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["detail"] != "Incorrect username or password" {
		t.Errorf("detail = %q", body["detail"])
	}
	if w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("WWW-Authenticate header not set")
	}
}

func TestLogin_MissingPassword_Returns422(t *testing.T) {
	uc := &fakeAuthUsecase{}

	w := postForm(newTestEngine(uc), "/api/oauth/login",
		url.Values{"username": {"junaid"}})

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

// ---- Token ----

func TestToken_MissingGrantType_Returns422WithFieldLocation(t *testing.T) {
	uc := &fakeAuthUsecase{}

	w := postForm(newTestEngine(uc), "/api/oauth/token", url.Values{})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}

	var body struct {
		Detail []struct {
			Type string   `json:"type"`
			Loc  []string `json:"loc"`
			Msg  string   `json:"msg"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if len(body.Detail) != 1 {
		t.Fatalf("detail has %d entries, want 1", len(body.Detail))
	}
	d := body.Detail[0]
	if d.Type != "missing" || d.Msg != "Field required" {
		t.Errorf("detail entry = %+v", d)
	}
	if len(d.Loc) != 2 || d.Loc[0] != "body" || d.Loc[1] != "grant_type" {
		t.Errorf("loc = %v, want [body grant_type]", d.Loc)
	}
}

func TestToken_InvalidRefreshToken_Returns401CredentialsException(t *testing.T) {
	uc := &fakeAuthUsecase{
		exchangeGrant: func(_ context.Context, _, _, _ string) (*usecase.Session, error) {
			return nil, domain.ErrInvalidGrant
		},
	}

	w := postForm(newTestEngine(uc), "/api/oauth/token",
		url.Values{"grant_type": {"refresh_token"}, "refresh_token": {"expired"}})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("WWW-Authenticate header not set")
	}

	var body struct {
		Detail struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Detail.Error != "invalid_token" {
		t.Errorf("error = %q, want %q", body.Detail.Error, "invalid_token")
	}
	if body.Detail.ErrorDescription != "The access token expired" {
		t.Errorf("error_description = %q", body.Detail.ErrorDescription)
	}
}

func TestToken_AuthorizationCodeGrant_Returns200(t *testing.T) {
	var capturedGrant, capturedCode string
	uc := &fakeAuthUsecase{
		exchangeGrant: func(_ context.Context, grantType, code, _ string) (*usecase.Session, error) {
			capturedGrant = grantType
			capturedCode = code
			return testSession, nil
		},
	}

	w := postForm(newTestEngine(uc), "/api/oauth/token",
		url.Values{"grant_type": {"authorization_code"}, "code": {"temp-code"}})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if capturedGrant != "authorization_code" || capturedCode != "temp-code" {
		t.Errorf("usecase called with grant=%q code=%q", capturedGrant, capturedCode)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if _, ok := body["user"]; ok {
		t.Error("grant response carries a user; only login does")
	}
}

// ---- TempCode ----

func TestTempCode_ValidUserID_Returns200WithCode(t *testing.T) {
	userID := uuid.New()
	uc := &fakeAuthUsecase{
		tempCode: func(_ context.Context, id uuid.UUID) (string, error) {
			if id != userID {
				t.Errorf("TempCode called with %v, want %v", id, userID)
			}
			return "signed-code", nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/oauth/temp-code?user_id="+userID.String(), nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["code"] != "signed-code" {
		t.Errorf("code = %q", body["code"])
	}
}

func TestTempCode_InvalidUserID_Returns422(t *testing.T) {
	uc := &fakeAuthUsecase{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/oauth/temp-code?user_id=not-a-uuid", nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

// ---- Signup ----

func TestSignup_Returns201WithUser(t *testing.T) {
	uc := &fakeAuthUsecase{
		signup: func(_ context.Context, input usecase.SignupInput) (*domain.User, error) {
			return &domain.User{
				ID:       uuid.New(),
				Username: input.Username,
				Email:    input.Email,
				FullName: input.FullName,
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/oauth/signup",
		strings.NewReader(`{"username":"junaid","email":"junaid@test.local","password":"supersecret"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["username"] != "junaid" {
		t.Errorf("username = %v", body["username"])
	}
	if _, ok := body["hashed_password"]; ok {
		t.Error("response leaks the password hash")
	}
}

func TestSignup_DuplicateUser_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		signup: func(_ context.Context, _ usecase.SignupInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/oauth/signup",
		strings.NewReader(`{"username":"junaid","email":"junaid@test.local","password":"supersecret"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["detail"] != "Email or username already registered" {
		t.Errorf("detail = %q", body["detail"])
	}
}

func TestSignup_ShortPassword_Returns422(t *testing.T) {
	uc := &fakeAuthUsecase{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/oauth/signup",
		strings.NewReader(`{"username":"junaid","email":"junaid@test.local","password":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

// ---- VerifyEmail ----

func TestVerifyEmail_InvalidToken_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		verifyEmail: func(_ context.Context, _ string) error {
			return domain.ErrTokenInvalid
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify-email?token=garbage", nil)
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
