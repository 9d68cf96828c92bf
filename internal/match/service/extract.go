package service

import (
	"regexp"
	"strconv"
	"strings"

	"pricematch-service/internal/match/model"
)

// Первая пара "число x число" (2-4 цифры): ширина, потом высота.
// Порядок значим — 200x50 и 50x200 это разные лотки.
var reDimPair = regexp.MustCompile(`\b(\d{2,4}) x (\d{2,4})\b`)

// Углы в порядке приоритета: 90 проверяется раньше 45, первый матч выигрывает.
var anglePriority = []struct {
	deg int
	re  *regexp.Regexp
}{
	{90, regexp.MustCompile(`\b90\b`)},
	{45, regexp.MustCompile(`\b45\b`)},
}

// Маркеры погонной единицы; текст уже нормализован, дефисы схлопнуты.
var rateMarkers = []string{"per metre", "per m", "lin m"}

// Extractor — превращает нормализованный текст в AttributeSet.
// Никогда не ошибается: что не распозналось, то отсутствует.
type Extractor struct {
	materials    []model.MaterialRule
	galvFallback bool
}

func NewExtractor(cfg model.Config) *Extractor {
	return &Extractor{materials: cfg.Materials, galvFallback: cfg.GalvFallback}
}

func (e *Extractor) Extract(normText string) model.AttributeSet {
	attrs := model.AttributeSet{Norm: normText, Unit: "ea"}
	if normText == "" {
		return attrs
	}

	if m := reDimPair.FindStringSubmatch(normText); m != nil {
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		attrs.WidthMM = &w
		attrs.HeightMM = &h
	}

	for _, a := range anglePriority {
		if a.re.MatchString(normText) {
			deg := a.deg
			attrs.AngleDeg = &deg
			break
		}
	}

	attrs.Material = e.material(normText)

	for _, marker := range rateMarkers {
		if strings.Contains(normText, marker) {
			attrs.Unit = "m"
			break
		}
	}

	return attrs
}

// material — таблица синонимов в порядке объявления, первый substring-хит
// выигрывает; затем опциональный fallback по подстроке "galv".
func (e *Extractor) material(normText string) string {
	for _, rule := range e.materials {
		for _, syn := range rule.Synonyms {
			if strings.Contains(normText, syn) {
				return rule.Canonical
			}
		}
	}
	if e.galvFallback && strings.Contains(normText, "galv") {
		return "galv"
	}
	return ""
}

// AttrOverlap — сколько извлечённых полей совпадает между двумя наборами.
// Считаются только поля, присутствующие у обоих.
func AttrOverlap(a, b model.AttributeSet) int {
	n := 0
	if a.WidthMM != nil && b.WidthMM != nil && *a.WidthMM == *b.WidthMM {
		n++
	}
	if a.HeightMM != nil && b.HeightMM != nil && *a.HeightMM == *b.HeightMM {
		n++
	}
	if a.AngleDeg != nil && b.AngleDeg != nil && *a.AngleDeg == *b.AngleDeg {
		n++
	}
	if a.Material != "" && a.Material == b.Material {
		n++
	}
	if a.Unit != "" && a.Unit == b.Unit {
		n++
	}
	return n
}

// AttrConflicts — сколько полей, присутствующих у обоих, расходится.
// Отсутствующее поле конфликтом не считается.
func AttrConflicts(a, b model.AttributeSet) int {
	n := 0
	if a.WidthMM != nil && b.WidthMM != nil && *a.WidthMM != *b.WidthMM {
		n++
	}
	if a.HeightMM != nil && b.HeightMM != nil && *a.HeightMM != *b.HeightMM {
		n++
	}
	if a.AngleDeg != nil && b.AngleDeg != nil && *a.AngleDeg != *b.AngleDeg {
		n++
	}
	if a.Material != "" && b.Material != "" && a.Material != b.Material {
		n++
	}
	return n
}
