// Package store holds the authoritative record set and the loading flag.
// It runs fetch and sanitize on refresh and publishes every state change
// to subscribers, so the UI can redraw without polling.
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/h0rv/fetchlist/internal/domain"
	"github.com/h0rv/fetchlist/internal/fetch"
	"github.com/h0rv/fetchlist/internal/sanitize"
)

// ViewState is a copy of the holder's state at one point in time.
type ViewState struct {
	Records []domain.Record
	// IsLoading is true while any refresh is in flight.
	IsLoading bool
	// Refreshed is true once at least one refresh has completed.
	Refreshed bool
	// LastError is the error of the most recent completed refresh, nil on success.
	LastError error
	UpdatedAt time.Time
}

// Store owns the ViewState. Records are only replaced by a successful
// refresh that is newer than the last applied one.
type Store struct {
	fetcher fetch.Fetcher
	tagger  sanitize.Tagger
	logf    func(format string, args ...any)

	mu       sync.Mutex
	state    ViewState
	seq      uint64 // last issued refresh sequence
	applied  uint64 // sequence of the last result written to state
	inflight int
	cancel   context.CancelFunc
	idle     *sync.Cond
	subs     map[int]chan ViewState
	nextSub  int
}

// Option customizes a Store.
type Option func(*Store)

// WithTagger sets the tagger used during sanitization.
func WithTagger(t sanitize.Tagger) Option {
	return func(s *Store) {
		if t != nil {
			s.tagger = t
		}
	}
}

// WithLogf replaces log.Printf for refresh diagnostics.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Store) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// New creates a Store and starts its first refresh in the background.
// The returned state already reports IsLoading.
func New(ctx context.Context, fetcher fetch.Fetcher, opts ...Option) *Store {
	s := newStore(fetcher, opts...)
	seq, rctx := s.begin(ctx)
	go s.run(rctx, seq)
	return s
}

func newStore(fetcher fetch.Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher: fetcher,
		tagger:  sanitize.Random(),
		logf:    log.Printf,
		subs:    make(map[int]chan ViewState),
	}
	s.idle = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh fetches and sanitizes the record set and blocks until done.
// Failures are logged and recorded in LastError; they never propagate and
// never clear existing records. Starting a refresh cancels any refresh
// still in flight, and results older than the last applied one are dropped.
func (s *Store) Refresh(ctx context.Context) {
	seq, rctx := s.begin(ctx)
	s.run(rctx, seq)
}

// begin registers a new refresh and marks the state as loading.
func (s *Store) begin(ctx context.Context) (uint64, context.Context) {
	rctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.seq++
	seq := s.seq
	s.inflight++
	s.state.IsLoading = true
	s.publishLocked()
	s.mu.Unlock()

	return seq, rctx
}

func (s *Store) run(ctx context.Context, seq uint64) {
	raw, err := s.fetcher.Fetch(ctx)
	var records []domain.Record
	if err == nil {
		records = sanitize.Sanitize(raw, s.tagger)
	}
	s.finish(seq, records, err)
}

func (s *Store) finish(seq uint64, records []domain.Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	if seq == s.seq && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	switch {
	case seq < s.applied || (err != nil && seq < s.seq):
		// Superseded: a newer refresh owns the outcome. Errors here are
		// usually the cancellation issued by begin.
		s.logf("refresh #%d superseded, result discarded", seq)
	case err != nil:
		s.logf("refresh failed: %v", err)
		s.applied = seq
		s.state.LastError = err
		s.state.Refreshed = true
		s.state.UpdatedAt = time.Now()
	default:
		s.applied = seq
		s.state.Records = records
		s.state.LastError = nil
		s.state.Refreshed = true
		s.state.UpdatedAt = time.Now()
	}

	s.state.IsLoading = s.inflight > 0
	if s.inflight == 0 {
		s.idle.Broadcast()
	}
	s.publishLocked()
}

// Wait blocks until no refresh is in flight.
func (s *Store) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.inflight > 0 {
		s.idle.Wait()
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() ViewState {
	snap := s.state
	snap.Records = cloneRecords(s.state.Records)
	return snap
}

// Subscribe returns a channel that receives the state after every change.
// Only the latest state is buffered; a slow reader skips intermediate
// states rather than blocking the store. Call the returned func to stop.
func (s *Store) Subscribe() (<-chan ViewState, func()) {
	ch := make(chan ViewState, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func cloneRecords(records []domain.Record) []domain.Record {
	if records == nil {
		return nil
	}
	dup := make([]domain.Record, len(records))
	copy(dup, records)
	return dup
}
