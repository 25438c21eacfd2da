package draftstore

import (
	"context"
	"sync"
	"time"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/domain/registration"
)

var _ registration.DraftRepository = (*Memory)(nil)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// Memory keeps drafts in this process. Entries expire ttl after their last save.
type Memory struct {
	codec *Codec
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemory creates an in-memory store.
func NewMemory(codec *Codec, ttl time.Duration) *Memory {
	return &Memory{
		codec:   codec,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Save stores d, replacing any previous version.
func (m *Memory) Save(ctx context.Context, d *registration.Draft) error {
	payload, err := m.codec.Encode(d)
	if err != nil {
		return apperror.NewInternal(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweepLocked(now)
	m.entries[d.ID] = memoryEntry{payload: payload, expiresAt: now.Add(m.ttl)}
	return nil
}

// Get loads the draft with id.
func (m *Memory) Get(ctx context.Context, id string) (*registration.Draft, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok && !m.now().Before(e.expiresAt) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, apperror.NewNotFound("draft", id)
	}
	d, err := m.codec.Decode(e.payload)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return d, nil
}

// Delete drops the draft with id. Deleting a missing draft is not an error.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of live drafts.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(m.now())
	return len(m.entries)
}

func (m *Memory) sweepLocked(now time.Time) {
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
		}
	}
}
