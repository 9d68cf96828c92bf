// Привязка колонок таблицы к полям Item/PriceItem.
package handler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pricematch-service/internal/match/model"
	"pricematch-service/internal/utils"
)

var rxHeaderKey = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// нормализуем имя колонки: нижний регистр, без служебных символов
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(s)
	s = rxHeaderKey.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// ищем реальный ключ в записи по желаемому имени.
// Поддерживает варианты через "|" (например: "description|family|name")
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	// точное совпадение (как есть)
	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	var nWantAll []string
	for _, a := range alts {
		nWantAll = append(nWantAll, normHeaderKey(a))
	}

	// нормализованные сравнения и contains (для составных заголовков,
	// например "Rate (GBP/unit)" содержит "rate")
	bestKey := ""
	bestScore := 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nWantAll {
			if nk == n {
				return k
			}
		}
		score := 0
		for _, n := range nWantAll {
			if n != "" && (strings.Contains(nk, n) || strings.Contains(n, nk)) {
				if len(n) > score {
					score = len(n)
				}
			}
		}
		if score > bestScore {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}

func toItems(maps []map[string]string, m model.Mapping) []model.Item {
	items := make([]model.Item, 0, len(maps))
	for i, rec := range maps {
		nameKey := resolveKey(rec, m.NameKey)
		text := strings.TrimSpace(rec[nameKey])
		if text == "" {
			continue
		}

		qty := decimal.NewFromInt(1)
		if d, ok := utils.ParseDecimal(rec[resolveKey(rec, m.QtyKey)]); ok {
			qty = d
		}

		id := strings.TrimSpace(rec[resolveKey(rec, m.IDKey)])
		if id == "" {
			id = "row-" + strconv.Itoa(i+1)
		}

		items = append(items, model.Item{
			ID:        id,
			Text:      text,
			ClassCode: strings.TrimSpace(rec[resolveKey(rec, m.ClassKey)]),
			Qty:       qty,
			Unit:      strings.TrimSpace(rec[resolveKey(rec, m.UnitKey)]),
		})
	}
	return items
}

func toPriceItems(maps []map[string]string, m model.Mapping) []model.PriceItem {
	prices := make([]model.PriceItem, 0, len(maps))
	for i, rec := range maps {
		nameKey := resolveKey(rec, m.NameKey)
		desc := strings.TrimSpace(rec[nameKey])
		if desc == "" {
			continue
		}

		price, ok := utils.ParseDecimal(rec[resolveKey(rec, m.QtyKey)])
		if !ok {
			continue // строка без цены каталогу не нужна
		}

		id := strings.TrimSpace(rec[resolveKey(rec, m.IDKey)])
		if id == "" {
			id = "price-" + strconv.Itoa(i+1)
		}

		prices = append(prices, model.PriceItem{
			ID:          id,
			Description: desc,
			ClassCode:   strings.TrimSpace(rec[resolveKey(rec, m.ClassKey)]),
			UnitPrice:   price,
			Unit:        strings.TrimSpace(rec[resolveKey(rec, m.UnitKey)]),
		})
	}
	return prices
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func toFloat(s string, def float64) float64 {
	f, ok := utils.ParseFloat(s)
	if !ok {
		return def
	}
	return f
}
