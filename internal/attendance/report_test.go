package attendance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMark(t *testing.T, svc *Service, school, name, email, kind, stampedAt string) {
	t.Helper()
	_, err := svc.db.Exec(`
		INSERT INTO attendance_marks (school, person_name, email, kind, stamped_at)
		VALUES (?, ?, ?, ?, ?)
	`, school, name, email, kind, stampedAt)
	require.NoError(t, err)
}

func TestSessionStatsCountsAndZeroes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	answered, err := svc.CreateSession(ctx, "X", "Answered", nil, "2025-01-02", "")
	require.NoError(t, err)
	empty, err := svc.CreateSession(ctx, "X", "Empty", nil, "2025-01-01", "")
	require.NoError(t, err)

	require.NoError(t, svc.Submit(ctx, answered.ID, map[string]interface{}{"signature": "ok"}))
	require.NoError(t, svc.Submit(ctx, answered.ID, map[string]interface{}{"signature": "ok"}))

	stats, err := svc.SessionStats(ctx, "X", "", "")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, answered.ID, stats[0].SessionID)
	assert.Equal(t, 2, stats[0].ResponseCount)

	// a session with no submissions still shows up, with a zero count
	assert.Equal(t, empty.ID, stats[1].SessionID)
	assert.Equal(t, 0, stats[1].ResponseCount)
}

func TestSessionStatsFiltersOnStart(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateSession(ctx, "X", "January", nil, "2025-01-15", "")
	require.NoError(t, err)
	inRange, err := svc.CreateSession(ctx, "X", "February", nil, "2025-02-15", "")
	require.NoError(t, err)

	stats, err := svc.SessionStats(ctx, "X", "2025-02-01", "2025-02-28")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, inRange.ID, stats[0].SessionID)
}

func TestDailySummaryGroupsByDateAndPerson(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seedMark(t, svc, "X", "Ana", "ana@x.test", KindEntry, "2025-01-10 08:00:00")
	seedMark(t, svc, "X", "Ana", "ana@x.test", KindExit, "2025-01-10 14:00:00")
	seedMark(t, svc, "X", "Beto", "beto@x.test", KindEntry, "2025-01-10 08:05:00")
	seedMark(t, svc, "X", "Ana", "ana@x.test", KindEntry, "2025-01-11 08:00:00")
	seedMark(t, svc, "Y", "Ana", "ana@x.test", KindEntry, "2025-01-10 08:00:00")

	summary, err := svc.DailySummary(ctx, "X", "", "")
	require.NoError(t, err)
	require.Len(t, summary, 3)

	// day desc, then person asc within a day
	assert.Equal(t, "2025-01-11", summary[0].Date)
	assert.Equal(t, "Ana", summary[0].PersonName)

	assert.Equal(t, "2025-01-10", summary[1].Date)
	assert.Equal(t, "Ana", summary[1].PersonName)
	assert.Equal(t, 1, summary[1].EntryCount)
	assert.Equal(t, 1, summary[1].ExitCount)
	assert.Equal(t, 2, summary[1].Total)

	assert.Equal(t, "Beto", summary[2].PersonName)
	assert.Equal(t, 1, summary[2].EntryCount)
	assert.Equal(t, 0, summary[2].ExitCount)
}

func TestDailySummaryDateBounds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seedMark(t, svc, "X", "Ana", "", KindEntry, "2025-01-09 23:59:00")
	seedMark(t, svc, "X", "Ana", "", KindEntry, "2025-01-10 08:00:00")
	seedMark(t, svc, "X", "Ana", "", KindEntry, "2025-01-11 08:00:00")

	summary, err := svc.DailySummary(ctx, "X", "2025-01-10", "2025-01-10")
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, "2025-01-10", summary[0].Date)
}

func TestSearchPeople(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seedMark(t, svc, "X", "Ana García", "ana@x.test", KindEntry, "2025-01-10 08:00:00")
	seedMark(t, svc, "X", "Ana García", "ana@x.test", KindExit, "2025-01-10 14:00:00")
	seedMark(t, svc, "X", "Beto Díaz", "beto@x.test", KindEntry, "2025-01-10 08:05:00")

	// no query returns everyone, alphabetical
	hits, err := svc.SearchPeople(ctx, "X", "")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Ana García", hits[0].PersonName)
	assert.Equal(t, 2, hits[0].TotalMarks)
	assert.Equal(t, "Beto Díaz", hits[1].PersonName)

	// matching is case-insensitive on name and email
	hits, err = svc.SearchPeople(ctx, "X", "ANA")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Ana García", hits[0].PersonName)

	hits, err = svc.SearchPeople(ctx, "X", "beto@")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Beto Díaz", hits[0].PersonName)
}

func TestPersonDetailChronological(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seedMark(t, svc, "X", "Ana", "ana@x.test", KindExit, "2025-01-10 14:00:00")
	seedMark(t, svc, "X", "Ana", "ana@x.test", KindEntry, "2025-01-10 08:00:00")
	seedMark(t, svc, "X", "Beto", "beto@x.test", KindEntry, "2025-01-10 08:05:00")
	seedMark(t, svc, "X", "Ana", "ana@x.test", KindEntry, "2025-02-01 08:00:00")

	marks, err := svc.PersonDetail(ctx, "X", "Ana", "", "", "")
	require.NoError(t, err)
	require.Len(t, marks, 3)
	assert.Equal(t, "2025-01-10 08:00:00", marks[0].StampedAt)
	assert.Equal(t, "2025-01-10 14:00:00", marks[1].StampedAt)
	assert.Equal(t, "2025-02-01 08:00:00", marks[2].StampedAt)

	// filters are AND-combined
	marks, err = svc.PersonDetail(ctx, "X", "Ana", "ana@x.test", "2025-02-01", "2025-02-28")
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, "2025-02-01 08:00:00", marks[0].StampedAt)
}

func TestEntryExitMatrix(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seedMark(t, svc, "X", "Ana", "ana@x.test", KindEntry, "2025-01-11 08:00:00")
	seedMark(t, svc, "X", "Ana", "ana@x.test", KindEntry, "2025-01-10 08:00:00")
	seedMark(t, svc, "X", "Ana", "ana@x.test", KindExit, "2025-01-10 14:00:00")
	seedMark(t, svc, "X", "Beto", "beto@x.test", KindExit, "2025-01-10 18:00:00")

	matrix, err := svc.EntryExitMatrix(ctx, "X", "", "")
	require.NoError(t, err)
	require.Len(t, matrix, 2)

	ana := matrix[0]
	assert.Equal(t, "Ana", ana.PersonName)
	assert.Equal(t, 2, ana.TotalEntries)
	assert.Equal(t, 1, ana.TotalExits)
	require.Len(t, ana.Dates, 2)

	// dates ascend within a person and the nested counts sum to the totals
	assert.Equal(t, "2025-01-10", ana.Dates[0].Date)
	assert.Equal(t, "2025-01-11", ana.Dates[1].Date)
	entries, exits := 0, 0
	for _, d := range ana.Dates {
		entries += d.Entries
		exits += d.Exits
	}
	assert.Equal(t, ana.TotalEntries, entries)
	assert.Equal(t, ana.TotalExits, exits)

	beto := matrix[1]
	assert.Equal(t, "Beto", beto.PersonName)
	assert.Equal(t, 0, beto.TotalEntries)
	assert.Equal(t, 1, beto.TotalExits)
}
