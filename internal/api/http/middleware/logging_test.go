package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/accountd/accountd/internal/testutil"
)

func TestLogging_Handle(t *testing.T) {
	l := NewLogging(testutil.MakeNoopLogger())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("body"))
	})

	w := httptest.NewRecorder()
	l.Handle(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

	// The wrapped writer must pass status and body through untouched.
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "body", w.Body.String())
}
