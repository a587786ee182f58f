package ticket

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignerIssueAndParse(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, expiresAt, err := signer.Issue("6", "7f1c9a1e-session")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	claims, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "6", claims.EventID)
	require.Equal(t, "7f1c9a1e-session", claims.SessionID)
	require.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
}

func TestSignerExpired(t *testing.T) {
	signer := NewSigner("secret", time.Minute)
	issuedAt := time.Date(2024, time.November, 25, 9, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issuedAt }
	token, _, err := signer.Issue("1", "s1")
	require.NoError(t, err)

	signer.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	claims, err := signer.Parse(token)
	require.ErrorIs(t, err, ErrExpired)
	require.Equal(t, "1", claims.EventID)
}

func TestSignerRejectsTampering(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, _, err := signer.Issue("1", "s1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "Mg"
	_, err = signer.Parse(strings.Join(parts, "."))
	require.ErrorIs(t, err, ErrSignature)

	_, err = NewSigner("other", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrSignature)

	_, err = signer.Parse("not-a-ticket")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestSignerRequiresSecret(t *testing.T) {
	_, _, err := NewSigner("", time.Hour).Issue("1", "s1")
	require.Error(t, err)
}

func TestQRProducesPNG(t *testing.T) {
	png, err := QR("token", 128)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
