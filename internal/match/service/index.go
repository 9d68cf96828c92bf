package service

import (
	"sort"
	"strings"

	"pricematch-service/internal/match/model"
)

// Index — блокировка прайс-листа по коду классификации.
// Равенство по индексу, не скан: бакет достаётся за O(1).
type Index struct {
	byClass map[string][]model.PriceItem
	byID    map[string]model.PriceItem
	all     []model.PriceItem
}

// BuildIndex строит индекс каталога. Бакеты отсортированы по ID позиции —
// детерминированный порядок кандидатов до ранжирования.
func BuildIndex(prices []model.PriceItem) *Index {
	idx := &Index{
		byClass: make(map[string][]model.PriceItem),
		byID:    make(map[string]model.PriceItem, len(prices)),
		all:     make([]model.PriceItem, len(prices)),
	}
	copy(idx.all, prices)
	sort.Slice(idx.all, func(i, j int) bool { return idx.all[i].ID < idx.all[j].ID })

	for _, p := range idx.all {
		idx.byID[p.ID] = p
		code := strings.TrimSpace(p.ClassCode)
		if code == "" {
			continue
		}
		idx.byClass[code] = append(idx.byClass[code], p)
	}
	return idx
}

// ByID — позиция по идентификатору.
func (idx *Index) ByID(id string) (model.PriceItem, bool) {
	p, ok := idx.byID[id]
	return p, ok
}

// Block возвращает кандидатов по коду классификации.
// Пустой код у позиции — деградация до полного каталога (degraded=true);
// это сигнал качества данных, не ошибка. Истинный матч с совпадающим
// кодом из бакета не выпадает никогда.
func (idx *Index) Block(classCode string) (items []model.PriceItem, degraded bool) {
	code := strings.TrimSpace(classCode)
	if code == "" {
		return idx.all, true
	}
	return idx.byClass[code], false
}

// Size — размер полного каталога.
func (idx *Index) Size() int { return len(idx.all) }

// Classes — число бакетов классификации.
func (idx *Index) Classes() int { return len(idx.byClass) }
