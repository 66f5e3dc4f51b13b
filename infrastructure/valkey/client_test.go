package valkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	p := normalizePrefix("autopost")
	assert.Equal(t, "autopost:", p)
	assert.Equal(t, "autopost:session:current", buildKey(p, "session", "current"))
	assert.Equal(t, "autopost", buildKey(p))
	assert.Equal(t, "session", buildKey("", "session"))
}
