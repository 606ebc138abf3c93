package database

import (
	"context"
	"path/filepath"
	"testing"

	"rift-rewind/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestOpen_MigratesSchema(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "rift.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, table := range []string{"sessions", "session_slots"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rift.db")

	first, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file:rift.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", dsn("rift.db"))
	assert.Equal(t, "file:rift.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", dsn("file:rift.db?mode=rwc"))
}

func TestNew_ClosesAfterLaterHooks(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "rift.db")}

	db, err := New(lc, cfg, zerolog.Nop())
	require.NoError(t, err)

	// a consumer registered after New, like the session janitor
	var pingErr error
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pingErr = db.PingContext(ctx)
			return nil
		},
	})

	lc.RequireStart()
	lc.RequireStop()

	assert.NoError(t, pingErr, "database closed before a dependent hook stopped")
	assert.Error(t, db.Ping(), "database still open after stop")
}
