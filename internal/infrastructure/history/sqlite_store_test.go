package history_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/hangwatch/internal/infrastructure/history"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"), 100)

	want := sampleResult(3)
	require.NoError(t, store.Append(want))

	records, err := store.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Command, got.Command)
	assert.Equal(t, want.Duration, got.Duration)
	assert.Equal(t, want.ExitCode, got.ExitCode)
	assert.Equal(t, want.TimedOut, got.TimedOut)
	assert.Equal(t, want.Killed, got.Killed)
	assert.Equal(t, want.DiagnosticRun, got.DiagnosticRun)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	assert.True(t, want.EndedAt.Equal(got.EndedAt))
}

func TestSQLiteStore_FIFOEviction(t *testing.T) {
	store := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"), 5)

	for i := 1; i <= 8; i++ {
		require.NoError(t, store.Append(sampleResult(i)))
	}

	records, err := store.Records()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "echo 4", records[0].Command, "oldest three entries evicted first")
	assert.Equal(t, "echo 8", records[4].Command)
}

func TestSQLiteStore_Clear(t *testing.T) {
	store := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"), 100)
	require.NoError(t, store.Append(sampleResult(1)))
	require.NoError(t, store.Clear())

	records, err := store.Records()
	require.NoError(t, err)
	assert.Empty(t, records)
}
