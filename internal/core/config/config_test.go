package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sample = `
app:
  env: test
  http:
    port: 9090
jwt:
  secret: s3cret
db:
  driver: sqlite
  autoMigrate: true
redis:
  enabled: true
  hotel_ttl_sec: 60
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadAppliesDefaults(t *testing.T) {
	c := Load(writeConfig(t, sample))

	assert.Equal(t, "test", c.App.Env)
	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, 8081, c.App.Admin.Port)
	assert.Equal(t, "s3cret", c.JWT.Secret)
	assert.Equal(t, 60, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, 60*24*7, c.JWT.RefreshTokenTTLMin)
	assert.True(t, c.DB.AutoMigrate)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, 60, c.Redis.HotelTTLSec)
	assert.False(t, c.MQ.Enabled)
	assert.Equal(t, "booking.events", c.MQ.Queue)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APP_DB_DRIVER", "postgres")
	t.Setenv("APP_JWT_SECRET", "from-env")

	c := Load(writeConfig(t, sample))
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "from-env", c.JWT.Secret)
}

func TestReadRejectsInvalidConfig(t *testing.T) {
	_, err := Read(writeConfig(t, "db:\n  driver: sqlite\n"))
	assert.ErrorContains(t, err, "jwt.secret")

	_, err = Read(writeConfig(t, "jwt:\n  secret: x\ndb:\n  driver: oracle\n"))
	assert.ErrorContains(t, err, "oracle")

	_, err = Read(writeConfig(t, "jwt:\n  secret: x\nmq:\n  enabled: true\n"))
	assert.ErrorContains(t, err, "mq.url")

	_, err = Read(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
