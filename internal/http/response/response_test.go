package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	"github.com/yungbote/intelliplan-admin/internal/platform/apierr"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"api error", apierr.NotFound("subject_not_found", errors.New("x")), http.StatusNotFound, "subject_not_found"},
		{"wrapped api error", fmt.Errorf("outer: %w", apierr.Forbidden("not_admin", nil)), http.StatusForbidden, "not_admin"},
		{"storage not found", dataerr.New(dataerr.CodeNotFound, "users.get", "", nil), http.StatusNotFound, "not_found"},
		{"storage retryable", dataerr.New(dataerr.CodeRetryable, "users.update", "", nil), http.StatusServiceUnavailable, "retry_later"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, c := range cases {
		status, code := Classify(c.err, "internal")
		if status != c.status || code != c.code {
			t.Fatalf("%s: want=%d/%s got=%d/%s", c.name, c.status, c.code, status, code)
		}
	}
}
