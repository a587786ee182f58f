package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

func TestAudienceAllowsMatrix(t *testing.T) {
	cases := []struct {
		audience models.AudienceType
		role     models.Role
		allowed  bool
	}{
		{models.AudiencePublic, models.RoleExternal, true},
		{models.AudiencePublic, models.RoleStudent, true},
		{models.AudienceStudents, models.RoleStudent, true},
		{models.AudienceStudents, models.RoleStaff, false},
		{models.AudienceStudents, models.RoleExternal, false},
		{models.AudienceStaff, models.RoleStaff, true},
		{models.AudienceStaff, models.RoleStudent, false},
		{models.AudienceInternal, models.RoleStudent, true},
		{models.AudienceInternal, models.RoleStaff, true},
		{models.AudienceInternal, models.RoleExternal, false},
		{models.AudienceType("unknown"), models.RoleStaff, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, AudienceAllows(tc.audience, tc.role), "%s/%s", tc.audience, tc.role)
	}
}

func TestEligibilityRecomputesRoleFromEmail(t *testing.T) {
	policy := NewEligibility(testRoles())
	session := &models.Session{ID: "s1", Identity: &models.Identity{Email: "carol@gmail.com", Role: models.RoleStudent}}

	_, err := policy.Check(models.Event{AudienceType: models.AudienceStudents}, session, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrEnrollmentRefused)
}

func TestEligibilityAnonymousRules(t *testing.T) {
	policy := NewEligibility(testRoles())
	session := anonymous("s1")

	_, err := policy.Check(models.Event{AudienceType: models.AudienceInternal}, session, &models.Attendee{Email: "dora@alumnos.usm.cl"})
	assert.ErrorIs(t, err, appErrors.ErrLoginRequired)

	_, err = policy.Check(models.Event{AudienceType: models.AudiencePublic}, session, nil)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = policy.Check(models.Event{AudienceType: models.AudiencePublic}, session, &models.Attendee{Email: "not-an-email"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	grant, err := policy.Check(models.Event{AudienceType: models.AudiencePublic}, session, &models.Attendee{Email: " dora@alumnos.usm.cl ", Name: "Dora"})
	require.NoError(t, err)
	assert.Equal(t, Grant{AttendeeEmail: "dora@alumnos.usm.cl", AttendeeName: "Dora", AttendeeRole: models.RoleStudent}, grant)
}
