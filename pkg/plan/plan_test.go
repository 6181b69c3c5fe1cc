package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPixelGrants(t *testing.T) {
	assert.Equal(t, 60, PixelGrants[Premium])
	assert.Equal(t, 125, PixelGrants[King])

	_, ok := PixelGrants[Free]
	assert.False(t, ok, "free tier has no pixel grant")
}

func TestIsPaid(t *testing.T) {
	assert.False(t, IsPaid(Free))
	assert.True(t, IsPaid(Premium))
	assert.True(t, IsPaid(King))
	assert.False(t, IsPaid(Type("platinum")))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Free))
	assert.True(t, Valid(Premium))
	assert.True(t, Valid(King))
	assert.False(t, Valid(Type("")))
}

func TestResolutionCosts(t *testing.T) {
	assert.Equal(t, 1, PixelCosts[Res4K])
	assert.Equal(t, 2, PixelCosts[Res8K])

	assert.True(t, ValidResolution(Res4K))
	assert.True(t, ValidResolution(Res8K))
	assert.False(t, ValidResolution(Resolution("1080p")))
}
