package journal_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/miosbridge/internal/journal"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledServiceIsNoop(t *testing.T) {
	jrnl, err := journal.NewService(journal.Config{Enabled: false})
	require.NoError(t, err)

	err = jrnl.Record(context.Background(), &journal.Entry{
		SentAt: time.Now(),
		Host:   "Vera_5",
		Key:    "mios.upnp[SwitchPower,Status]",
		Value:  "1",
	})
	require.NoError(t, err)
	require.NoError(t, jrnl.Close())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, journal.Config{Enabled: false}.Validate())

	err := journal.Config{Enabled: true, DBPath: "", BatchSize: 1, BatchTimeout: 1}.Validate()
	require.Error(t, err)

	err = journal.Config{Enabled: true, DBPath: "/tmp/x.db", BatchSize: 0, BatchTimeout: 1}.Validate()
	require.Error(t, err)

	cfg := journal.DefaultConfig()
	cfg.Enabled = true
	require.NoError(t, cfg.Validate())
}

func TestServiceRecordsEntries(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	jrnl, err := journal.NewService(journal.Config{
		Enabled:      true,
		DBPath:       dbPath,
		BatchSize:    2,
		BatchTimeout: 60,
	})
	require.NoError(t, err)

	sentAt := time.Unix(1700000000, 0)
	for _, value := range []string{"1", "0", "1"} {
		err := jrnl.Record(context.Background(), &journal.Entry{
			SentAt: sentAt,
			Host:   "Vera_5",
			Key:    "mios.upnp[SwitchPower,Status]",
			Value:  value,
		})
		require.NoError(t, err)
	}

	// Close flushes the partial batch
	require.NoError(t, jrnl.Close())

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count))
	assert.Equal(t, 3, count)

	var host, key, value string
	var storedAt int64
	require.NoError(t, db.QueryRow(
		"SELECT sent_at, host, item_key, value FROM records ORDER BY id LIMIT 1",
	).Scan(&storedAt, &host, &key, &value))
	assert.Equal(t, sentAt.Unix(), storedAt)
	assert.Equal(t, "Vera_5", host)
	assert.Equal(t, "mios.upnp[SwitchPower,Status]", key)
	assert.Equal(t, "1", value)
}

func TestNilEntryRejected(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	jrnl, err := journal.NewService(journal.Config{
		Enabled:      true,
		DBPath:       dbPath,
		BatchSize:    1,
		BatchTimeout: 60,
	})
	require.NoError(t, err)
	defer jrnl.Close()

	require.Error(t, jrnl.Record(context.Background(), nil))
}

func TestSchemaVersioning(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	version, err := journal.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Zero(t, version, "fresh database has no schema")

	require.NoError(t, journal.InitSchema(db))

	version, err = journal.GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, journal.SchemaVersion, version)

	// Validating a current schema is a no-op
	require.NoError(t, journal.ValidateAndUpdateSchema(db))
}
