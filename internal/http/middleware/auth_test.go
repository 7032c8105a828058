package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/intelliplan-admin/internal/platform/apierr"
	"github.com/yungbote/intelliplan-admin/internal/platform/ctxutil"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/services"
)

type stubAuth struct {
	services.AuthService
	op *ctxutil.Operator
}

func (s *stubAuth) SetContextFromToken(ctx context.Context, tok string) (context.Context, error) {
	if tok != "good" {
		return ctx, apierr.Unauthorized("session_revoked", errors.New("session revoked or expired"))
	}
	return ctxutil.WithOperator(ctx, s.op), nil
}

func (s *stubAuth) GetAccessTTL() time.Duration { return time.Hour }

func authRouter(op *ctxutil.Operator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.Use(NewAuthMiddleware(logger.Nop(), &stubAuth{op: op}).RequireAuth())
	r.GET("/api/me", func(c *gin.Context) {
		o := ctxutil.GetOperator(c.Request.Context())
		c.String(http.StatusOK, o.Email)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	op := &ctxutil.Operator{UserID: uuid.New(), Email: "ops@example.com", SessionID: uuid.New()}
	r := authRouter(op)

	cases := []struct {
		name   string
		header string
		query  string
		status int
		body   string
	}{
		{name: "missing", status: http.StatusUnauthorized},
		{name: "revoked", header: "Bearer stale", status: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer good", status: http.StatusOK, body: "ops@example.com"},
		{name: "query token", query: "?token=good", status: http.StatusOK, body: "ops@example.com"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/me"+tc.query, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s: status want=%d got=%d body=%s", tc.name, tc.status, rec.Code, rec.Body.String())
		}
		if tc.body != "" && rec.Body.String() != tc.body {
			t.Fatalf("%s: body want=%q got=%q", tc.name, tc.body, rec.Body.String())
		}
		if rec.Header().Get(headerRequestID) == "" {
			t.Fatalf("%s: missing request id header", tc.name)
		}
	}
}

func TestRequireAuthRejectsAnonymousOperator(t *testing.T) {
	r := authRouter(&ctxutil.Operator{})
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status want=%d got=%d", http.StatusForbidden, rec.Code)
	}
}

func TestAttachTraceContextKeepsCallerIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-1")
	req.Header.Set(headerTraceID, "trace-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if seen == nil || seen.RequestID != "req-1" || seen.TraceID != "trace-1" {
		t.Fatalf("trace data: got=%+v", seen)
	}
	if rec.Header().Get(headerTraceID) != "trace-1" {
		t.Fatalf("trace header: got=%q", rec.Header().Get(headerTraceID))
	}
}
