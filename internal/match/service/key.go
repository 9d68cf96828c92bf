package service

import (
	"strconv"
	"strings"

	"pricematch-service/internal/match/model"
)

// keySep — разделитель сегментов канонического ключа.
const keySep = "|"

// BuildKey — детерминированная сериализация AttributeSet.
// Только присутствующие поля, фиксированный порядок
// {width, height, angle, material, unit}; пустые поля не эмитятся.
// Два текста с одинаковым AttributeSet всегда дают одинаковый ключ.
func BuildKey(attrs model.AttributeSet) string {
	segs := make([]string, 0, 5)
	if attrs.WidthMM != nil {
		segs = append(segs, "width="+strconv.Itoa(*attrs.WidthMM))
	}
	if attrs.HeightMM != nil {
		segs = append(segs, "height="+strconv.Itoa(*attrs.HeightMM))
	}
	if attrs.AngleDeg != nil {
		segs = append(segs, "angle="+strconv.Itoa(*attrs.AngleDeg))
	}
	if attrs.Material != "" {
		segs = append(segs, "material="+attrs.Material)
	}
	if attrs.Unit != "" {
		segs = append(segs, "unit="+attrs.Unit)
	}
	return strings.Join(segs, keySep)
}
