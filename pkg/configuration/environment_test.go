package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "AGENTLISTS_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "pkg", "tabular")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(sub))

	_ = os.Unsetenv("AGENTLISTS_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "ok", os.Getenv("AGENTLISTS_TEST_ENV_LOAD"))
}

func TestParse_Defaults(t *testing.T) {
	c := &Configuration{}
	require.NoError(t, c.parse())

	require.Equal(t, DriverPostgres, c.Database.Driver)
	require.Equal(t, int64(1000000), c.Upload.MaxSize)
	require.Equal(t, "localhost:5000", c.SocketAddress)
	require.Contains(t, c.Database.Opts, "dbname=agentlists")
}

func TestParse_SQLiteDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/lists.db")

	c := &Configuration{}
	require.NoError(t, c.parse())
	require.Equal(t, DriverSQLite, c.Database.Driver)
	require.Equal(t, "file:/tmp/lists.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", c.Database.Opts)
}

func TestParse_RejectsInvalidValues(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mongo")
		require.ErrorContains(t, (&Configuration{}).parse(), "DB_DRIVER")
	})
	t.Run("upload size", func(t *testing.T) {
		t.Setenv("MAX_UPLOAD_SIZE", "0")
		require.ErrorContains(t, (&Configuration{}).parse(), "MAX_UPLOAD_SIZE")
	})
	t.Run("rate limit", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_GLOBAL_RPS", "-1")
		require.ErrorContains(t, (&Configuration{}).parse(), "rate limit")
	})
}

func TestOrigins(t *testing.T) {
	c := &Configuration{CORSOrigins: "http://a.test, http://b.test\nhttp://c.test"}
	require.Equal(t, []string{"http://a.test", "http://b.test", "http://c.test"}, c.Origins())
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, ParseLogLevel("DEBUG"))
	require.Equal(t, logrus.PanicLevel, ParseLogLevel("silent"))
	require.Equal(t, logrus.ErrorLevel, ParseLogLevel("nonsense"))
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}
