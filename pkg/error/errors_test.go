package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthError_UnwrapsCause(t *testing.T) {
	cause := errors.New("bad password")
	err := fmt.Errorf("startup: %w", NewAuthError("login failed", cause))

	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "login failed: bad password", authErr.Error())
	assert.Equal(t, "AUTH_ERROR", authErr.ErrCode())
}

func TestAuthError_WithoutCause(t *testing.T) {
	assert.Equal(t, "no credentials or session", NewAuthError("no credentials or session", nil).Error())
}

func TestPublishAndArchivalErrors(t *testing.T) {
	cause := errors.New("boom")

	pub := NewPublishError("/tmp/a.jpg", cause)
	assert.Equal(t, "publish /tmp/a.jpg: boom", pub.Error())
	assert.ErrorIs(t, pub, cause)

	arc := NewArchivalError("/tmp/a.jpg", cause)
	assert.Equal(t, "archive /tmp/a.jpg: boom", arc.Error())
	assert.Equal(t, "ARCHIVAL_ERROR", arc.ErrCode())
}
