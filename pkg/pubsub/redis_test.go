package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCovers(t *testing.T) {
	assert.True(t, covers([]string{"a", "b"}, []string{"b"}))
	assert.False(t, covers([]string{"a"}, []string{"b", "c"}))
	assert.False(t, covers(nil, []string{"a"}))
}
