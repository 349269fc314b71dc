package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalRecordAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")

	j := NewJournal(path)
	require.NoError(t, j.Record(Entry{
		Action:  "place",
		Symbol:  "ETHUSDC",
		OrderID: 101,
		Status:  "NEW",
		Side:    "BUY",
		Price:   "2600",
	}))
	require.NoError(t, j.Record(Entry{
		Action:  "cancel",
		Symbol:  "ETHUSDC",
		OrderID: 101,
		Status:  "CANCELED",
	}))

	// A fresh journal over the same file sees both entries.
	reloaded := NewJournal(path)
	entries, err := reloaded.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "place", entries[0].Action)
	assert.False(t, entries[0].Time.IsZero())
	assert.Equal(t, "CANCELED", entries[1].Status)
}

func TestJournalFindByOrderIDReturnsLatest(t *testing.T) {
	j := NewJournal(filepath.Join(t.TempDir(), "orders.json"))
	require.NoError(t, j.Record(Entry{Action: "place", OrderID: 7, Status: "NEW"}))
	require.NoError(t, j.Record(Entry{Action: "cancel", OrderID: 7, Status: "CANCELED"}))

	e, found, err := j.FindByOrderID(7)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "CANCELED", e.Status)

	_, found, err = j.FindByOrderID(8)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestJournalMissingFileIsEmpty(t *testing.T) {
	j := NewJournal(filepath.Join(t.TempDir(), "absent.json"))
	entries, err := j.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
