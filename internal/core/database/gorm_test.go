package database

import (
	"errors"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name, in, user, pass string
		wantUser, wantPass   string
		wantAddr, wantDB     string
	}{
		{"native", "u:p@tcp(db:3306)/art", "", "", "u", "p", "db:3306", "art"},
		{"native with overrides", "u:p@tcp(db:3306)/art", "root", "pw", "root", "pw", "db:3306", "art"},
		{"url form", "mysql://u:p@db:3306/art?loc=UTC", "", "", "u", "p", "db:3306", "art"},
		{"url without password", "mysql://db:3306/art", "root", "pw", "root", "pw", "db:3306", "art"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := gomysql.ParseDSN(normalizeMySQLDSN(tc.in, tc.user, tc.pass))
			require.NoError(t, err)
			assert.Equal(t, tc.wantUser, cfg.User)
			assert.Equal(t, tc.wantPass, cfg.Passwd)
			assert.Equal(t, "tcp", cfg.Net)
			assert.Equal(t, tc.wantAddr, cfg.Addr)
			assert.Equal(t, tc.wantDB, cfg.DBName)
			assert.True(t, cfg.ParseTime)
		})
	}

	assert.Empty(t, normalizeMySQLDSN("  ", "", ""))
	assert.Equal(t, "not a dsn", normalizeMySQLDSN("not a dsn", "root", ""))
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "u:****@tcp(db:3306)/art", maskDSN("u:secret@tcp(db:3306)/art"))
	assert.Equal(t, "tcp(db)/art", maskDSN("tcp(db)/art"))
}

func TestNewGormSQLiteAndMigrate(t *testing.T) {
	db, err := NewGorm(Opts{
		Driver:   "sqlite",
		DSN:      "file:" + t.Name() + "?mode=memory&cache=shared",
		LogLevel: "silent",
		Log:      zap.NewNop(),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "artworks", "categories"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNewGormUnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.True(t, errors.Is(err, ErrUnsupportedDriver))
}
