package auth

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewGateRequiresSecret(t *testing.T) {
	_, err := NewGate("")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestGatePlain(t *testing.T) {
	g, err := NewGate("open sesame")
	require.NoError(t, err)
	assert.True(t, g.Check("open sesame"))
	assert.False(t, g.Check("open"))
	assert.False(t, g.Check(""))
}

func TestGateBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("plate"), bcrypt.MinCost)
	require.NoError(t, err)
	g, err := NewGate(string(hash))
	require.NoError(t, err)
	assert.True(t, g.Check("plate"))
	assert.False(t, g.Check(string(hash)))
}

func TestUnlockRetries(t *testing.T) {
	g, err := NewGate("pw")
	require.NoError(t, err)

	var out bytes.Buffer
	var rejected []int
	err = g.Unlock(NewLinePrompter(strings.NewReader("wrong\nalso wrong\npw\n"), &out), 3, func(n int) {
		rejected = append(rejected, n)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, rejected)
	assert.Equal(t, 3, strings.Count(out.String(), "password: "))
}

func TestUnlockGivesUp(t *testing.T) {
	g, err := NewGate("pw")
	require.NoError(t, err)
	err = g.Unlock(NewLinePrompter(strings.NewReader("a\nb\nc\n"), nil), 2, nil)
	assert.ErrorIs(t, err, ErrTooManyAttempt)
}

func TestUnlockInputExhausted(t *testing.T) {
	g, err := NewGate("pw")
	require.NoError(t, err)
	err = g.Unlock(NewLinePrompter(strings.NewReader("a\n"), nil), 3, nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTooManyAttempt))
}

func TestLinePrompterLastLineWithoutNewline(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("pw"), nil)
	got, err := p.Prompt("")
	require.NoError(t, err)
	assert.Equal(t, "pw", got)
}
