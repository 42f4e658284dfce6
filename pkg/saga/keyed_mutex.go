package saga

import (
	"context"
	"sync"

	"github.com/Tusharjain-19/split-payment/internal/pkg/apperrors"
	"github.com/google/uuid"
)

// KeyedMutex serializes work per master transaction id. Two triggers for the
// same purchase (webhook, client failure report, sweeper tick) take turns;
// different masters proceed in parallel.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		entries: make(map[uuid.UUID]*lockEntry),
	}
}

// Lock acquires the mutex for the given key, waiting at most until ctx
// expires. On success it returns the unlock function; on expiry it returns a
// ConcurrencyError so callers can surface contention instead of hanging.
func (m *KeyedMutex) Lock(ctx context.Context, key uuid.UUID) (func(), error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &lockEntry{sem: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			m.release(key, e)
		}, nil
	case <-ctx.Done():
		m.release(key, e)
		return nil, &apperrors.ConcurrencyError{MasterTxnId: key.String()}
	}
}

func (m *KeyedMutex) release(key uuid.UUID, e *lockEntry) {
	m.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
	m.mu.Unlock()
}
