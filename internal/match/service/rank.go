package service

import (
	"sort"
	"strings"

	"pricematch-service/internal/match/model"
)

// similarity — normalized Damerau-Levenshtein similarity in [0..1]
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	d := damerauLevenshtein(a, b)
	m := len([]rune(a))
	if mb := len([]rune(b)); mb > m {
		m = mb
	}
	if m == 0 {
		return 1
	}
	return 1 - float64(d)/float64(m)
}

// tokenSort: сортируем токены по алфавиту (устойчиво к порядку слов)
func tokenSort(s string) string {
	if s == "" {
		return s
	}
	t := strings.Fields(s)
	sort.Strings(t)
	return strings.Join(t, " ")
}

func tokenSortSimilarity(a, b string) float64 {
	return similarity(tokenSort(a), tokenSort(b))
}

func bestSimilarity(a, b string) float64 {
	x := similarity(a, b)
	if y := tokenSortSimilarity(a, b); y > x {
		return y
	}
	return x
}

// Rank — ранжирует кандидатов по текстовой близости к itemNorm, по убыванию.
// Каждый вызов считает проход заново, инкрементального продолжения нет.
//
// Tie-break при равном score: больше совпавших атрибутов → выше;
// при полном равенстве — стабильный порядок по ID позиции. Результат
// воспроизводим от запуска к запуску.
//
// Срез до maxCandidates ограничивает стоимость downstream-этапов.
func Rank(itemNorm string, itemAttrs model.AttributeSet, blocked []model.PriceItem, maxCandidates int) []model.Candidate {
	if len(blocked) == 0 {
		return nil
	}
	out := make([]model.Candidate, 0, len(blocked))
	for _, p := range blocked {
		out = append(out, model.Candidate{
			PriceItemID: p.ID,
			Description: p.Description,
			Score:       bestSimilarity(itemNorm, p.DescNorm),
			AttrOverlap: AttrOverlap(itemAttrs, p.Attrs),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].AttrOverlap != out[j].AttrOverlap {
			return out[i].AttrOverlap > out[j].AttrOverlap
		}
		return out[i].PriceItemID < out[j].PriceItemID
	})

	if maxCandidates > 0 && len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}
