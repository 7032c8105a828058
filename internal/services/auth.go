package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	"github.com/yungbote/intelliplan-admin/internal/data/repos"
	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"github.com/yungbote/intelliplan-admin/internal/platform/apierr"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/platform/dbctx"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAdmin           = errors.New("access denied: admin privileges required")
	ErrSessionRevoked     = errors.New("session revoked or expired")
)

type JWTClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// LoginResult is handed back to the operator's client.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int         `json:"expires_in"`
	SessionID   uuid.UUID   `json:"session_id"`
	Operator    *types.User `json:"operator"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
	// OnLogout registers fn to run with the session id whenever a session
	// ends, by sign-out or expiry.
	OnLogout(fn func(sessionID uuid.UUID))
	// SweepExpired drops sessions past their expiry and returns how many.
	SweepExpired(now time.Time) int
}

type operatorSession struct {
	userID    uuid.UUID
	email     string
	expiresAt time.Time
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	audit        AuditService
	jwtSecretKey string
	accessTTL    time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]operatorSession
	onLogout []func(uuid.UUID)
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, audit AuditService, jwtSecretKey string, accessTTL time.Duration) AuthService {
	if accessTTL <= 0 {
		accessTTL = 8 * time.Hour
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		audit:        audit,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		sessions:     make(map[uuid.UUID]operatorSession),
	}
}

func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apierr.BadRequest("invalid_request", fmt.Errorf("email and password are required"))
	}

	user, err := as.userRepo.GetByEmail(dbctx.Background(ctx), email)
	if err != nil {
		if dataerr.IsCode(err, dataerr.CodeNotFound) {
			as.recordFailure(ctx, email, "unknown email")
			return nil, apierr.Unauthorized("invalid_credentials", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("load operator: %w", err)
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		as.recordFailure(ctx, email, "bad password")
		return nil, apierr.Unauthorized("invalid_credentials", ErrInvalidCredentials)
	}
	// Valid credentials without the admin role are signed straight back out.
	if !user.IsAdmin() {
		as.recordFailure(ctx, email, "not an admin")
		return nil, apierr.Forbidden("not_admin", ErrNotAdmin)
	}

	sid := uuid.New()
	expiresAt := time.Now().Add(as.accessTTL)
	tok, err := as.generateAccessToken(user, sid, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	as.mu.Lock()
	as.sessions[sid] = operatorSession{userID: user.ID, email: user.Email, expiresAt: expiresAt}
	as.mu.Unlock()

	opCtx := ctxutil.WithOperator(ctx, &ctxutil.Operator{UserID: user.ID, Email: user.Email, SessionID: sid})
	as.audit.Record(opCtx, types.AuditLoginSuccess, fmt.Sprintf("Admin signed in: %s", user.Email), nil)
	as.log.Info("operator signed in", "user_id", user.ID, "session_id", sid)

	return &LoginResult{
		AccessToken: tok,
		ExpiresIn:   int(as.accessTTL.Seconds()),
		SessionID:   sid,
		Operator:    user,
	}, nil
}

func (as *authService) recordFailure(ctx context.Context, email, reason string) {
	as.log.Warn("operator sign-in rejected", "email", email, "reason", reason)
	as.audit.Record(ctx, types.AuditLoginFailure, fmt.Sprintf("Failed sign-in for %s (%s)", email, reason), nil)
}

func (as *authService) Logout(ctx context.Context) error {
	op := ctxutil.GetOperator(ctx)
	if op == nil || op.SessionID == uuid.Nil {
		return apierr.Unauthorized("unauthorized", fmt.Errorf("no operator session in context"))
	}
	as.endSession(op.SessionID)
	as.log.Info("operator signed out", "user_id", op.UserID, "session_id", op.SessionID)
	return nil
}

func (as *authService) endSession(sid uuid.UUID) {
	as.mu.Lock()
	_, ok := as.sessions[sid]
	delete(as.sessions, sid)
	hooks := append([]func(uuid.UUID){}, as.onLogout...)
	as.mu.Unlock()
	if !ok {
		return
	}
	for _, fn := range hooks {
		fn(sid)
	}
}

func (as *authService) OnLogout(fn func(sessionID uuid.UUID)) {
	if fn == nil {
		return
	}
	as.mu.Lock()
	as.onLogout = append(as.onLogout, fn)
	as.mu.Unlock()
}

func (as *authService) SweepExpired(now time.Time) int {
	as.mu.Lock()
	var expired []uuid.UUID
	for sid, s := range as.sessions {
		if now.After(s.expiresAt) {
			expired = append(expired, sid)
		}
	}
	as.mu.Unlock()
	for _, sid := range expired {
		as.endSession(sid)
	}
	return len(expired)
}

func (as *authService) generateAccessToken(user *types.User, sid uuid.UUID, expiresAt time.Time) (string, error) {
	claims := JWTClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        sid.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthorized("unauthorized", fmt.Errorf("missing token"))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, apierr.Unauthorized("unauthorized", fmt.Errorf("parse token: %w", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized("unauthorized", fmt.Errorf("invalid or expired token"))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("unauthorized", fmt.Errorf("invalid user id in token: %w", err))
	}
	sid, err := uuid.Parse(claims.ID)
	if err != nil {
		return ctx, apierr.Unauthorized("unauthorized", fmt.Errorf("invalid session id in token: %w", err))
	}

	as.mu.Lock()
	sess, live := as.sessions[sid]
	as.mu.Unlock()
	if !live || sess.userID != userID || time.Now().After(sess.expiresAt) {
		return ctx, apierr.Unauthorized("session_revoked", ErrSessionRevoked)
	}
	return ctxutil.WithOperator(ctx, &ctxutil.Operator{UserID: userID, Email: sess.email, SessionID: sid}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

// HashPassword is used when provisioning operators.
func HashPassword(plain string) (string, error) {
	if len(plain) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
