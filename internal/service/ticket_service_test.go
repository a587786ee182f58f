package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/ticket"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestTicketIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, sampleCatalog()...)
	tickets := NewTicketService(ticket.NewSigner("secret", time.Hour), env.service, 128, nil)
	session := signedIn("s1", "ana@alumnos.usm.cl")

	_, err := tickets.Issue(ctx, session, "1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound, "no ticket without an enrollment")

	_, _, err = env.service.Enroll(ctx, session, "1", nil)
	require.NoError(t, err)

	img, err := tickets.Issue(ctx, session, "1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img.PNG, pngMagic))
	assert.True(t, img.ExpiresAt.After(time.Now()))

	result, err := tickets.Verify(ctx, img.Token)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "1", result.Ticket.EventID)
	assert.Equal(t, "s1", result.Ticket.SessionID)
	assert.Equal(t, "ana@alumnos.usm.cl", result.Enrollment.AttendeeEmail)

	_, err = env.service.Unenroll(ctx, session, "1")
	require.NoError(t, err)
	_, err = tickets.Verify(ctx, img.Token)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTicketVerifyRejectsForgedTokens(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, sampleCatalog()...)
	session := signedIn("s1", "ana@alumnos.usm.cl")
	_, _, err := env.service.Enroll(ctx, session, "1", nil)
	require.NoError(t, err)

	forged, _, err := ticket.NewSigner("other-secret", time.Hour).Issue("1", "s1")
	require.NoError(t, err)

	tickets := NewTicketService(ticket.NewSigner("secret", time.Hour), env.service, 128, nil)
	for _, token := range []string{forged, "", "not.a.ticket", strings.Repeat("x", 40)} {
		_, err := tickets.Verify(ctx, token)
		assert.ErrorIs(t, err, appErrors.ErrValidation, token)
	}
}
