package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigest_StableForSameBytes(t *testing.T) {
	a := Digest([]byte("order data"))
	b := Digest([]byte("order data"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, Digest([]byte("other data")))
}

func TestMatches(t *testing.T) {
	data := []byte("payload")
	assert.True(t, Matches(data, Digest(data)))
	assert.False(t, Matches(data, Digest([]byte("different"))))
	assert.False(t, Matches(data, ""), "empty expectation never matches")
}
