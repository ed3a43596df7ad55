package token

import (
	"testing"
	"time"

	"tooltrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer([]byte("test-signing-key"), 30*time.Minute)

	tok, err := iss.Issue("jane@example.com", "Jane Doe", models.RoleStaff)
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Subject)
	assert.Equal(t, "Jane Doe", claims.Name)
	assert.Equal(t, models.RoleStaff, claims.Role)
}

func TestParseRejectsWrongKey(t *testing.T) {
	tok, err := NewIssuer([]byte("key-one"), time.Minute).Issue("a@b.c", "A", models.RoleUser)
	require.NoError(t, err)

	_, err = NewIssuer([]byte("key-two"), time.Minute).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	// Negative TTL produces an already-expired token.
	iss := &Issuer{key: []byte("k"), ttl: -time.Minute}
	tok, err := iss.Issue("a@b.c", "A", models.RoleUser)
	require.NoError(t, err)

	_, err = iss.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	iss := NewIssuer([]byte("k"), time.Minute)
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		_, err := iss.Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
