package combat

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"ashfall/internal/observability"
)

// JournalEntry is one NDJSON line in the event journal.
type JournalEntry struct {
	Tick    uint64 `json:"tick"`
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Journal writes combat events as newline-delimited JSON on a background
// goroutine. A token bucket caps the write rate; entries over budget are
// counted and dropped rather than stalling the tick.
type Journal struct {
	limiter *rate.Limiter
	entries chan JournalEntry

	total   atomic.Uint64
	dropped atomic.Uint64

	closer io.Closer
	wg     sync.WaitGroup
	once   sync.Once
}

// NewJournal starts a journal writing to w. perSecond is the sustained
// entry budget, burst the momentary allowance.
func NewJournal(w io.Writer, perSecond float64, burst int) *Journal {
	j := &Journal{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		entries: make(chan JournalEntry, 256),
	}
	if c, ok := w.(io.Closer); ok {
		j.closer = c
	}
	j.wg.Add(1)
	go j.writerLoop(w)
	return j
}

// OpenJournal opens (creating or truncating) a journal file at path.
func OpenJournal(path string, perSecond float64, burst int) (*Journal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return NewJournal(f, perSecond, burst), nil
}

// Record enqueues one event. Never blocks: over-budget or backed-up
// entries are dropped and counted.
func (j *Journal) Record(t EventType, tick uint64, payload any) {
	j.total.Add(1)
	if !j.limiter.Allow() {
		j.drop()
		return
	}
	select {
	case j.entries <- JournalEntry{Tick: tick, Type: t.String(), Payload: payload}:
	default:
		j.drop()
	}
}

func (j *Journal) drop() {
	j.dropped.Add(1)
	observability.CountJournalDropped()
}

// Stats returns total recorded attempts and how many were dropped.
func (j *Journal) Stats() (total, dropped uint64) {
	return j.total.Load(), j.dropped.Load()
}

// Close flushes pending entries and closes the underlying writer if the
// journal owns one.
func (j *Journal) Close() error {
	j.once.Do(func() {
		close(j.entries)
	})
	j.wg.Wait()
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}

func (j *Journal) writerLoop(w io.Writer) {
	defer j.wg.Done()
	enc := json.NewEncoder(w)
	for entry := range j.entries {
		if err := enc.Encode(entry); err != nil {
			j.dropped.Add(1)
		}
	}
}
