package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("ADMIN_EMAILS", "root@example.com, ops@example.com")
	t.Setenv("WORKER_QUEUES", "votes")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"root@example.com", "ops@example.com"}, cfg.Auth.AdminEmails)
	assert.Equal(t, []string{"votes"}, cfg.Worker.Queues)
	assert.Equal(t, 300, cfg.Worker.LeaseSeconds)
}

func TestAuthConfig_IsAdmin(t *testing.T) {
	c := AuthConfig{AdminEmails: []string{"Root@Example.com"}}

	assert.True(t, c.IsAdmin("root@example.com"))
	assert.False(t, c.IsAdmin("guest@example.com"))
	assert.False(t, AuthConfig{}.IsAdmin("root@example.com"))
}

func TestLogConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, LogConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, "Asia/Jakarta", LogConfig{Timezone: "Asia/Jakarta"}.Location().String())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_DURATION_VAR"

	t.Setenv(key, "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration(key, time.Second))

	t.Setenv(key, "soon")
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"

	t.Setenv(key, "a, b,,c ")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvList(key, nil))

	t.Setenv(key, " , ")
	assert.Equal(t, []string{"x"}, getEnvList(key, []string{"x"}))
}
