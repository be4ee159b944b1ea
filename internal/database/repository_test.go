package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"daily-check/internal/allocator"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func record(date string, p allocator.Triple) ActivityRecord {
	return ActivityRecord{
		Date:        date,
		Activities:  [3]string{"Playing", "Reading", "Drawing"},
		Proportions: p,
	}
}

func TestGetRecordNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetRecord("2024-01-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRecordUpsertsByDate(t *testing.T) {
	repo := newTestRepository(t)

	first := record("2024-03-10", allocator.Triple{50, 25, 25})
	first.Note = "first"
	require.NoError(t, repo.SaveRecord(first))

	second := record("2024-03-10", allocator.Triple{10, 20, 70})
	second.Activities[2] = "Reading"
	second.Note = "second"
	require.NoError(t, repo.SaveRecord(second))

	n, err := repo.CountRecords()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.GetRecord("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, allocator.Triple{10, 20, 70}, got.Proportions)
	assert.Equal(t, [3]string{"Playing", "Reading", "Reading"}, got.Activities)
	assert.Equal(t, "second", got.Note)
}

func TestSaveRecordRejectsBrokenTriple(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.SaveRecord(record("2024-03-10", allocator.Triple{50, 50, 50}))
	assert.ErrorIs(t, err, allocator.ErrInvalidInput)

	n, err := repo.CountRecords()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListRecordsSinceOrdered(t *testing.T) {
	repo := newTestRepository(t)

	for _, date := range []string{"2024-03-12", "2024-01-05", "2024-03-01"} {
		require.NoError(t, repo.SaveRecord(record(date, allocator.Default)))
	}

	all, err := repo.ListRecords("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-01-05", all[0].Date)
	assert.Equal(t, "2024-03-12", all[2].Date)

	recent, err := repo.ListRecords("2024-03-01")
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "2024-03-01", recent[0].Date)
}

func TestDeleteRecord(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.SaveRecord(record("2024-03-12", allocator.Default)))

	require.NoError(t, repo.DeleteRecord("2024-03-12"))
	assert.ErrorIs(t, repo.DeleteRecord("2024-03-12"), ErrNotFound)
}
