package csrf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToken_Idempotent(t *testing.T) {
	m := NewManager()

	t1 := m.Token()
	t2 := m.Token()

	assert.NotEmpty(t, t1)
	assert.Equal(t, t1, t2)
}

func TestGenerate_Replaces(t *testing.T) {
	m := NewManager()

	t1 := m.Token()
	t2 := m.Generate()

	assert.NotEqual(t, t1, t2)
	assert.Equal(t, t2, m.Token())
}

func TestValidate(t *testing.T) {
	m := NewManager()

	t.Run("no active token", func(t *testing.T) {
		assert.False(t, m.Validate("anything"))
	})

	t.Run("matching token", func(t *testing.T) {
		tok := m.Token()
		assert.True(t, m.Validate(tok))
	})

	t.Run("wrong token", func(t *testing.T) {
		m.Token()
		assert.False(t, m.Validate("wrong"))
	})

	t.Run("empty candidate", func(t *testing.T) {
		m.Token()
		assert.False(t, m.Validate(""))
	})

	t.Run("stale token after rotation", func(t *testing.T) {
		old := m.Token()
		m.Generate()
		assert.False(t, m.Validate(old))
	})
}

func TestClear(t *testing.T) {
	m := NewManager()

	tok := m.Token()
	m.Clear()

	assert.False(t, m.Validate(tok))
	assert.NotEqual(t, tok, m.Token())
}
