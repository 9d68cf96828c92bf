package mapping

import (
	"context"
	"sync"
	"time"
)

// Memory — словарь в памяти: append-only журнал версий + индекс текущих.
// Обе структуры обновляются под одним мьютексом, так что инвариант
// "не более одной текущей записи на ключ" держится при любом числе
// конкурентных писателей.
type Memory struct {
	mu      sync.RWMutex
	log     []Record       // вся история, в порядке записи
	current map[string]int // key → позиция текущей версии в log
	nextVer int64
}

func NewMemory() *Memory {
	return &Memory{current: make(map[string]int), nextVer: 1}
}

func (m *Memory) Lookup(ctx context.Context, key string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.current[key]
	if !ok {
		return Record{}, ErrNotFound
	}
	return m.log[i], nil
}

func (m *Memory) Put(ctx context.Context, key, priceItemID, source string, confidence float64) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	now := time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.current[key]; ok {
		closed := m.log[i]
		closed.ValidTo = &now
		m.log[i] = closed
	}

	rec := Record{
		Key:         key,
		PriceItemID: priceItemID,
		Source:      source,
		Confidence:  confidence,
		Version:     m.nextVer,
		ValidFrom:   now,
	}
	m.nextVer++
	m.log = append(m.log, rec)
	m.current[key] = len(m.log) - 1
	return rec, nil
}

func (m *Memory) History(ctx context.Context, key string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Record
	for _, r := range m.log {
		if r.Key == key {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
