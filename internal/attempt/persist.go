package attempt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/quizdesk/internal/api"
)

// CurrentSlot is the storage slot holding the attempt in progress.
const CurrentSlot = "current"

// Persister keeps the current attempt across restarts.
type Persister interface {
	// Load returns the stored attempt, or nil when there is none.
	Load(ctx context.Context) (*Attempt, error)
	Save(ctx context.Context, a *Attempt) error
	Clear(ctx context.Context) error
}

// SlotStore is a keyed blob store. Get returns nil data for a missing slot.
type SlotStore interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Put(ctx context.Context, slot string, data []byte) error
	Delete(ctx context.Context, slot string) error
}

// SlotPersister stores the attempt as JSON in a single slot of a SlotStore.
type SlotPersister struct {
	slots SlotStore
	slot  string
}

// NewSlotPersister returns a Persister over the CurrentSlot of slots.
func NewSlotPersister(slots SlotStore) *SlotPersister {
	return &SlotPersister{slots: slots, slot: CurrentSlot}
}

func (p *SlotPersister) Load(ctx context.Context) (*Attempt, error) {
	data, err := p.slots.Get(ctx, p.slot)
	if err != nil {
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var a Attempt
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode attempt: %w", err)
	}
	if a.Answers == nil {
		a.Answers = map[api.ID]Answer{}
	}
	return &a, nil
}

func (p *SlotPersister) Save(ctx context.Context, a *Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}
	if err := p.slots.Put(ctx, p.slot, data); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (p *SlotPersister) Clear(ctx context.Context) error {
	if err := p.slots.Delete(ctx, p.slot); err != nil {
		return fmt.Errorf("clear attempt: %w", err)
	}
	return nil
}

// MemorySlots is an in-process SlotStore.
type MemorySlots struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemorySlots returns an empty MemorySlots.
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{data: make(map[string][]byte)}
}

func (m *MemorySlots) Get(_ context.Context, slot string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[slot]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), b...), nil
}

func (m *MemorySlots) Put(_ context.Context, slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[slot] = append([]byte(nil), data...)
	return nil
}

func (m *MemorySlots) Delete(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, slot)
	return nil
}
