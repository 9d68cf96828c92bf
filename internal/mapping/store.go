package mapping

import (
	"context"
	"errors"
	"time"
)

// Record — одна версия связки canonical_key → позиция прайс-листа (SCD2).
// Записи никогда не мутируются: исправление закрывает интервал текущей
// версии и добавляет новую.
type Record struct {
	Key         string     `json:"key"`
	PriceItemID string     `json:"priceItemId"`
	Source      string     `json:"source"` // auto | manual
	Confidence  float64    `json:"confidence"`
	Version     int64      `json:"version"`
	ValidFrom   time.Time  `json:"validFrom"`
	ValidTo     *time.Time `json:"validTo,omitempty"` // nil = current
}

// Current reports whether the record's validity interval is open.
func (r Record) Current() bool { return r.ValidTo == nil }

var (
	// ErrNotFound — нет текущей записи по ключу. Обычный промах, не сбой.
	ErrNotFound = errors.New("mapping: not found")
	// ErrConflict — конкурирующий писатель победил и ретраи исчерпаны.
	// Транзиентная ошибка: история не повреждена, можно повторить.
	ErrConflict = errors.New("mapping: write conflict")
	// ErrUnavailable — хранилище недоступно. Retryable; вызывающий код
	// не должен трактовать это как "нет матча".
	ErrUnavailable = errors.New("mapping: store unavailable")
)

// Store — контракт словаря маппингов. Инвариант: в любой момент времени
// по ключу не более одной текущей записи, в том числе при конкурентных Put.
type Store interface {
	// Lookup возвращает текущую запись по ключу либо ErrNotFound.
	Lookup(ctx context.Context, key string) (Record, error)
	// Put закрывает предыдущую текущую запись ключа и вставляет новую —
	// append-only, одна атомарная операция.
	Put(ctx context.Context, key, priceItemID, source string, confidence float64) (Record, error)
	// History возвращает все версии ключа от старых к новым.
	History(ctx context.Context, key string) ([]Record, error)
	Close() error
}
