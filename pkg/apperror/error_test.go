package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	cases := []struct {
		name    string
		err     *AppError
		code    int
		message string
	}{
		{"bad request", BadRequest("Invalid email"), http.StatusBadRequest, "Invalid email"},
		{"method not allowed", MethodNotAllowed(), http.StatusMethodNotAllowed, "Method not allowed"},
		{"too many requests", TooManyRequests(), http.StatusTooManyRequests, "Too many requests"},
		{"bad gateway", BadGateway("Discord webhook failed", cause), http.StatusBadGateway, "Discord webhook failed"},
		{"internal", Internal(cause), http.StatusInternalServerError, "Internal error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.message, tc.err.Error())
		})
	}
}

func TestInternalDoesNotLeakCause(t *testing.T) {
	cause := errors.New("secret webhook token rejected")
	err := Internal(cause)

	assert.NotContains(t, err.Error(), "secret")
	assert.ErrorIs(t, err, cause)
}
