// Package sanitize turns raw endpoint records into domain records.
package sanitize

import (
	"math/rand/v2"
	"sync"

	"github.com/h0rv/fetchlist/internal/domain"
)

// Tagger picks the decorative tag for each emitted record.
type Tagger interface {
	Next() domain.Tag
}

// Sanitize drops records whose name is missing or empty and copies the rest,
// in input order, attaching a tag from tagger. A nil tagger uses Random.
func Sanitize(raw []domain.RawRecord, tagger Tagger) []domain.Record {
	if tagger == nil {
		tagger = Random()
	}
	records := make([]domain.Record, 0, len(raw))
	for _, r := range raw {
		if r.Name == nil || *r.Name == "" {
			continue
		}
		records = append(records, domain.Record{
			ID:     r.ID,
			ListID: r.ListID,
			Name:   *r.Name,
			Tag:    tagger.Next(),
		})
	}
	return records
}

type randomTagger struct{}

// Random returns a Tagger choosing uniformly from domain.Palette.
func Random() Tagger {
	return randomTagger{}
}

func (randomTagger) Next() domain.Tag {
	return domain.Palette[rand.IntN(len(domain.Palette))]
}

// RoundRobin cycles through domain.Palette. Safe for concurrent use.
type RoundRobin struct {
	mu   sync.Mutex
	next int
}

// Next returns the following tag in palette order.
func (r *RoundRobin) Next() domain.Tag {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag := domain.Palette[r.next%len(domain.Palette)]
	r.next++
	return tag
}
