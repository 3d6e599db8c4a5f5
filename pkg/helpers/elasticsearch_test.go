package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewESClient_RequiresAddress(t *testing.T) {
	_, err := NewESClient(ESOptions{})
	assert.ErrorIs(t, err, errNoESAddrs)
}

func TestNewESClient(t *testing.T) {
	es, err := NewESClient(ESOptions{Addrs: []string{"http://127.0.0.1:9200"}, MaxRetries: 1})
	require.NoError(t, err)
	assert.NotNil(t, es)
}
