package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/inkwell/internal/apperr"
)

func TestSignVerify(t *testing.T) {
	j := JWT{Secret: []byte("s3cret"), Issuer: "inkwell", TTL: time.Hour}
	tok, exp, err := j.Sign("user-1", "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	c, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.UserID())
	assert.Equal(t, "alice", c.Username)
}

func TestVerifyRejects(t *testing.T) {
	j := JWT{Secret: []byte("s3cret"), Issuer: "inkwell", TTL: time.Hour}
	tok, _, err := j.Sign("user-1", "alice")
	require.NoError(t, err)

	other := JWT{Secret: []byte("other"), Issuer: "inkwell", TTL: time.Hour}
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	wrongIssuer := JWT{Secret: []byte("s3cret"), Issuer: "someone-else", TTL: time.Hour}
	_, err = wrongIssuer.Verify(tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	expired := JWT{Secret: []byte("s3cret"), Issuer: "inkwell", TTL: -time.Minute}
	tok, _, err = expired.Sign("user-1", "alice")
	require.NoError(t, err)
	_, err = j.Verify(tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = j.Verify("not-a-token")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", h)
	assert.NoError(t, CheckPassword(h, "correct horse"))
	assert.ErrorIs(t, CheckPassword(h, "battery staple"), apperr.ErrUnauthenticated)
}
