package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(3 * time.Second)

	assert.Equal(t, 3*time.Second, c.Timeout)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, tr.TLSHandshakeTimeout)
	assert.NotNil(t, tr.Proxy)
}
