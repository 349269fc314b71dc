// Package repository persists a local journal of order activity, one JSON
// file per deployment. The journal is an audit trail, not a source of
// truth; the exchange is always authoritative.
package repository

import (
	"fmt"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// Entry is one journaled order event.
type Entry struct {
	Time          time.Time `json:"time"`
	Action        string    `json:"action"`
	Symbol        string    `json:"symbol"`
	OrderID       int64     `json:"orderId,omitempty"`
	ClientOrderID string    `json:"clientOrderId,omitempty"`
	Status        string    `json:"status,omitempty"`
	Side          string    `json:"side,omitempty"`
	Type          string    `json:"type,omitempty"`
	Price         string    `json:"price,omitempty"`
	Quantity      string    `json:"quantity,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// Journal appends entries to a JSON file under a mutex. Reads load the
// whole file; the journal is small and append-mostly.
type Journal struct {
	path    string
	mu      sync.Mutex
	entries []Entry
	loaded  bool
}

func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

func (j *Journal) load() error {
	if j.loaded {
		return nil
	}
	file, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			j.loaded = true
			return nil
		}
		return fmt.Errorf("failed to open journal %s: %w", j.path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&j.entries); err != nil {
		return fmt.Errorf("failed to decode journal %s: %w", j.path, err)
	}
	j.loaded = true
	return nil
}

func (j *Journal) flush() error {
	file, err := os.Create(j.path)
	if err != nil {
		return fmt.Errorf("failed to create journal %s: %w", j.path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j.entries); err != nil {
		return fmt.Errorf("failed to encode journal %s: %w", j.path, err)
	}
	return nil
}

// Record appends one entry and persists the journal.
func (j *Journal) Record(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.load(); err != nil {
		return err
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	j.entries = append(j.entries, e)
	return j.flush()
}

// Entries returns a copy of all journaled events.
func (j *Journal) Entries() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.load(); err != nil {
		return nil, err
	}
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out, nil
}

// FindByOrderID returns the most recent entry for an exchange order ID.
func (j *Journal) FindByOrderID(id int64) (Entry, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.load(); err != nil {
		return Entry{}, false, err
	}
	for i := len(j.entries) - 1; i >= 0; i-- {
		if j.entries[i].OrderID == id {
			return j.entries[i], true, nil
		}
	}
	return Entry{}, false, nil
}
