package keyboard

import (
	"testing"

	"github.com/example/monitorctl/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestModifierVariantsCollapse(t *testing.T) {

	assert := assert.New(t)

	left, ok := CodeToKey(keyLeftCtrl)
	assert.True(ok)
	right, ok := CodeToKey(keyRightCtrl)
	assert.True(ok)
	assert.Equal(left, right)
	assert.Equal(domain.KeyCtrl, left)
}

func TestDigitAndLetterCodes(t *testing.T) {

	assert := assert.New(t)

	one, ok := CodeToKey(2)
	assert.True(ok)
	assert.Equal(domain.Key("1"), one)

	q, ok := CodeToKey(16)
	assert.True(ok)
	assert.Equal(domain.Key("q"), q)
}

func TestArrowCodes(t *testing.T) {

	assert := assert.New(t)

	up, ok := CodeToKey(keyArrowUp)
	assert.True(ok)
	assert.Equal(domain.KeyUp, up)

	down, ok := CodeToKey(keyArrowDown)
	assert.True(ok)
	assert.Equal(domain.KeyDown, down)
}

func TestUnmappedCode(t *testing.T) {
	_, ok := CodeToKey(500)
	assert.False(t, ok)
}
