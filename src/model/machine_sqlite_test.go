package model

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/vendingreader/backend/src/database"
)

func newMigratedDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "machines.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db, "../../db/migrations"))
	return db
}

func TestSaveReading_SQLite(t *testing.T) {
	db := newMigratedDB(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	first := sampleReading()
	first.ID, first.Fingerprint, first.TakenAt = "r-1", "fp-a", base
	require.NoError(t, SaveReading(db, Machine{SerialNumber: "SN4711", AssetNumber: "ASSET-22"}, first))

	second := sampleReading()
	second.ID, second.Fingerprint, second.TakenAt = "r-2", "fp-b", base.Add(24*time.Hour)
	require.NoError(t, SaveReading(db, Machine{SerialNumber: "SN4711", AssetNumber: "ASSET-22", Location: "Lobby"}, second))

	manual := &Reading{ID: "r-3", UserID: "user-1", MachineID: "ASSET-22", TakenAt: base.Add(48 * time.Hour), Source: SourceManual, PaidValue: 5}
	require.NoError(t, SaveReading(db, Machine{}, manual))

	dup := sampleReading()
	dup.ID, dup.Fingerprint = "r-4", "fp-a"
	assert.ErrorIs(t, SaveReading(db, Machine{SerialNumber: "SN4711"}, dup), ErrDuplicateReading)

	m, err := GetMachine(db, "user-1", "ASSET-22")
	require.NoError(t, err)
	assert.Equal(t, 3, m.TotalReadings)
	assert.Equal(t, "SN4711", m.SerialNumber)
	assert.Equal(t, "ASSET-22", m.AssetNumber)
	assert.Equal(t, "Lobby", m.Location)
	assert.True(t, m.LastUpdate.Equal(manual.TakenAt))

	readings, err := GetReadingsByMachine(db, "user-1", "ASSET-22")
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.Equal(t, "r-3", readings[0].ID)
	assert.Empty(t, readings[0].Fingerprint)

	// The same fingerprint is allowed for another user.
	other := sampleReading()
	other.ID, other.UserID, other.Fingerprint = "r-5", "user-2", "fp-a"
	require.NoError(t, SaveReading(db, Machine{SerialNumber: "SN4711"}, other))

	require.NoError(t, DeleteReading(db, "user-1", "r-1"))
	m, err = GetMachine(db, "user-1", "ASSET-22")
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalReadings)

	require.NoError(t, DeleteMachine(db, "user-1", "ASSET-22"))
	_, err = GetMachine(db, "user-1", "ASSET-22")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = GetMachine(db, "user-2", "ASSET-22")
	assert.NoError(t, err)
}
