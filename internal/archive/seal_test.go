package archive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	plaintext := []byte(`{"total":"12.50"}`)

	sealed, err := Seal(plaintext, "correct horse")
	require.NoError(t, err)
	assert.Len(t, sealed, saltSize+nonceSize+len(plaintext)+16)
	assert.False(t, bytes.Contains(sealed, plaintext))

	opened, err := Open(sealed, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestSealUsesFreshSalt(t *testing.T) {
	a, err := Seal([]byte("same"), "pw")
	require.NoError(t, err)
	b, err := Seal([]byte("same"), "pw")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpenWrongPassphrase(t *testing.T) {
	sealed, err := Seal([]byte("secret"), "right")
	require.NoError(t, err)

	_, err = Open(sealed, "wrong")
	assert.Error(t, err)
}

func TestOpenTooShort(t *testing.T) {
	_, err := Open(make([]byte, saltSize), "pw")
	assert.ErrorIs(t, err, ErrSealedTooShort)
}
