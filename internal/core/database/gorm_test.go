package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name, in, user, pass, want string
	}{
		{
			name: "jdbc url",
			in:   "jdbc:mysql://root:pw@127.0.0.1:3306/hotel?useSSL=false&serverTimezone=UTC",
			want: "root:pw@tcp(127.0.0.1:3306)/hotel?charset=utf8mb4&loc=UTC&parseTime=true&tls=false",
		},
		{
			name: "override credentials",
			in:   "mysql://root:pw@db:3306/hotel?characterEncoding=utf8&useUnicode=true",
			user: "app", pass: "s3cret",
			want: "app:s3cret@tcp(db:3306)/hotel?charset=utf8&parseTime=true",
		},
		{
			name: "native dsn untouched",
			in:   "user:pass@tcp(db:3306)/hotel?parseTime=true",
			want: "user:pass@tcp(db:3306)/hotel?parseTime=true",
		},
		{
			name: "credentials in query",
			in:   "mysql://db:3306/hotel?user=app&password=pw&useSSL=Skip-Verify&charset=latin1&characterEncoding=utf8",
			want: "app:pw@tcp(db:3306)/hotel?charset=latin1&parseTime=true&tls=skip-verify",
		},
		{
			name: "no credentials",
			in:   "mysql://db/hotel?parseTime=false&zeroDateTimeBehavior=convertToNull",
			want: "tcp(db)/hotel?charset=utf8mb4&parseTime=false",
		},
		{name: "empty", in: "  ", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass))
		})
	}
}

func TestTLSMode(t *testing.T) {
	assert.Equal(t, "true", tlsMode("TRUE"))
	assert.Equal(t, "true", tlsMode("1"))
	assert.Equal(t, "preferred", tlsMode("preferred"))
	assert.Equal(t, "false", tlsMode("no"))
}

func TestNewGorm(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)

	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1, MaxIdleConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.NoError(t, sqlDB.Ping())
	assert.Equal(t, "sqlite", db.Dialector.Name())
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db:3306)/hotel", maskDSN("root:pw@tcp(db:3306)/hotel"))
	assert.Equal(t, "root@tcp(db:3306)/hotel", maskDSN("root@tcp(db:3306)/hotel"))
	assert.Equal(t, "tcp(db:3306)/hotel", maskDSN("tcp(db:3306)/hotel"))
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLevel("silent"))
	assert.Equal(t, logger.Info, gormLevel("info"))
	assert.Equal(t, logger.Warn, gormLevel(""))
}
