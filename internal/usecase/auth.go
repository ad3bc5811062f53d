package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caxgpt/todo-api/internal/domain"
	"github.com/caxgpt/todo-api/internal/email"
	"github.com/caxgpt/todo-api/internal/password"
	"github.com/caxgpt/todo-api/internal/repository"
	"github.com/caxgpt/todo-api/internal/token"
	"github.com/google/uuid"
)

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 60 * time.Minute
	defaultCodeTTL    = 3 * time.Minute

	// Verification links ride the same codec as session tokens but live
	// long enough to survive a slow inbox.
	verifyTTL = 24 * time.Hour

	grantAuthorizationCode = "authorization_code"
	grantRefreshToken      = "refresh_token"
)

// Session is the result of any successful token issuance. User is set
// only on the username/password login path; the grant flow never
// re-resolves the user record.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         *domain.User
}

// AuthTTLs overrides the default token lifetimes; zero fields keep the
// defaults.
type AuthTTLs struct {
	Access  time.Duration
	Refresh time.Duration
	Code    time.Duration
}

type AuthUsecase struct {
	users      repository.UserRepository
	hasher     *password.Hasher
	codec      *token.Codec
	email      email.Sender
	accessTTL  time.Duration
	refreshTTL time.Duration
	codeTTL    time.Duration
	baseURL    string
}

func NewAuthUsecase(
	users repository.UserRepository,
	hasher *password.Hasher,
	codec *token.Codec,
	emailSender email.Sender,
	baseURL string,
	ttls AuthTTLs,
) *AuthUsecase {
	if ttls.Access <= 0 {
		ttls.Access = defaultAccessTTL
	}
	if ttls.Refresh <= 0 {
		ttls.Refresh = defaultRefreshTTL
	}
	if ttls.Code <= 0 {
		ttls.Code = defaultCodeTTL
	}
	return &AuthUsecase{
		users:      users,
		hasher:     hasher,
		codec:      codec,
		email:      emailSender,
		accessTTL:  ttls.Access,
		refreshTTL: ttls.Refresh,
		codeTTL:    ttls.Code,
		baseURL:    baseURL,
	}
}

type SignupInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

// Signup hashes the password and stores the user. Uniqueness collisions
// surface as domain.ErrUserExists — a single message for both username
// and email, so the endpoint never reveals which one collided.
func (u *AuthUsecase) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	digest, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.users.Create(ctx, &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		FullName:       input.FullName,
		HashedPassword: digest,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// SendVerificationEmail mails a signed verify-kind link for the user.
// Callers treat failures as non-fatal: signup must not depend on the
// mail provider being up.
func (u *AuthUsecase) SendVerificationEmail(ctx context.Context, user *domain.User) error {
	verifyToken, err := u.codec.Encode(token.Claims{UserID: user.ID, Kind: token.KindVerify}, verifyTTL)
	if err != nil {
		return fmt.Errorf("encode verification token: %w", err)
	}

	link := u.baseURL + "/api/auth/verify-email?token=" + url.QueryEscape(verifyToken)
	subject := "Verify your email"
	body := fmt.Sprintf(
		`<p>Welcome! Click the link below to verify your email address:</p><p><a href="%s">%s</a></p>`,
		link, link,
	)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// VerifyEmail validates a verify-kind token and flips the user's flag.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, rawToken string) error {
	claims, err := u.codec.Decode(rawToken, token.KindVerify)
	if err != nil {
		return domain.ErrTokenInvalid
	}
	if err := u.users.MarkEmailVerified(ctx, claims.UserID); err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	return nil
}

// Login authenticates a username/password pair and issues a session.
// An unknown username and a wrong password are indistinguishable to the
// caller. Any number of attempts are permitted.
func (u *AuthUsecase) Login(ctx context.Context, username, pass string) (*Session, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := u.hasher.Verify(pass, user.HashedPassword)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := u.issueTokens(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	session.User = user
	return session, nil
}

// TempCode mints a short-lived exchange code for the given user id. The
// endpoint exposing it is deliberately unauthenticated: the GPT-action
// OAuth handoff mints a code from the id alone and immediately trades
// it for a session at the token endpoint.
func (u *AuthUsecase) TempCode(_ context.Context, userID uuid.UUID) (string, error) {
	code, err := u.codec.Encode(token.Claims{UserID: userID, Kind: token.KindCode}, u.codeTTL)
	if err != nil {
		return "", fmt.Errorf("encode temp code: %w", err)
	}
	return code, nil
}

// ExchangeGrant implements the two-grant token endpoint. Every failure
// is domain.ErrInvalidGrant; the 422-level check for a missing
// grant_type field happens at the request-schema boundary, not here.
//
// Refresh rotation always mints a brand-new pair but never invalidates
// the presented token — it stays usable until its own expiry. There is
// no server-side token state at all.
func (u *AuthUsecase) ExchangeGrant(_ context.Context, grantType, code, refreshToken string) (*Session, error) {
	switch grantType {
	case grantAuthorizationCode:
		if code == "" {
			return nil, domain.ErrInvalidGrant
		}
		claims, err := u.codec.Decode(code, token.KindCode)
		if err != nil {
			return nil, domain.ErrInvalidGrant
		}
		return u.issueTokens(claims.UserID, claims.Username)

	case grantRefreshToken:
		if refreshToken == "" {
			return nil, domain.ErrInvalidGrant
		}
		claims, err := u.codec.Decode(refreshToken, token.KindRefresh)
		if err != nil {
			return nil, domain.ErrInvalidGrant
		}
		return u.issueTokens(claims.UserID, claims.Username)

	default:
		return nil, domain.ErrInvalidGrant
	}
}

// CurrentUser resolves the full user record for /api/users/me.
func (u *AuthUsecase) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (u *AuthUsecase) issueTokens(userID uuid.UUID, username string) (*Session, error) {
	access, err := u.codec.Encode(
		token.Claims{UserID: userID, Username: username, Kind: token.KindAccess}, u.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("encode access token: %w", err)
	}

	refresh, err := u.codec.Encode(
		token.Claims{UserID: userID, Username: username, Kind: token.KindRefresh}, u.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("encode refresh token: %w", err)
	}

	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(u.accessTTL.Seconds()),
	}, nil
}
