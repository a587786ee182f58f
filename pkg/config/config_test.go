package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("STUDENT_DOMAINS", " alumnos.usm.cl , ,estudiantes.usm.cl")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, EnvDevelopment, cfg.Env)
	require.Equal(t, "/api/v1", cfg.APIPrefix)
	require.Equal(t, StoreRedis, cfg.Store.Backend)
	require.Equal(t, []string{"alumnos.usm.cl", "estudiantes.usm.cl"}, cfg.Roles.StudentDomains)
	require.Equal(t, []string{"usm.cl", "funcionarios.usm.cl"}, cfg.Roles.StaffDomains)
	require.Equal(t, 720*time.Hour, cfg.Session.Expiration)
	require.True(t, cfg.Events.SeedSamples)
}

func TestParseDurationFallback(t *testing.T) {
	require.Equal(t, time.Minute, parseDuration("", time.Minute))
	require.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	require.Equal(t, 2*time.Hour, parseDuration("2h", time.Minute))
}

func TestEventsLocationFallsBackToUTC(t *testing.T) {
	require.Equal(t, time.UTC, EventsConfig{Timezone: "Mars/Olympus"}.Location())
	require.Equal(t, time.UTC, EventsConfig{}.Location())
}
