package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Разделители размеров: ×, *, x между цифрами, а также слово "by"
// ("200×50", "200 * 50", "200 by 50" → "200 x 50")
var reDimGlyph = regexp.MustCompile(`(\d)\s*[x×*]\s*(\d)`)
var reDimBy = regexp.MustCompile(`(\d)\s+by\s+(\d)`)

// Шумовые токены: project-префиксы, ревизии, версии — токен вырезается целиком
var reNoiseToken = regexp.MustCompile(`\b(?:proj(?:ect)?\w*|rev\d+|v\d+)\b`)

// Всё, что не буква/цифра → пробел
var reNonWord = regexp.MustCompile(`[^a-z0-9]+`)

// unicode fold: canonical decomposition, drop combining marks
var foldT = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// === normalize — главный конвейер ===
// Чистая детерминированная функция: тот же вход → тот же выход, ошибок нет.
func normalize(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(foldT, s)
	if err != nil {
		out = s // fold best-effort, исходный текст не теряем
	}
	out = strings.ToLower(out)

	// 1) разделители размеров → единый " x " (до общей чистки, пока × ещё жив)
	out = reDimGlyph.ReplaceAllString(out, "$1 x $2")
	out = reDimBy.ReplaceAllString(out, "$1 x $2")

	// 2) пунктуация/спецсимволы → пробел
	out = reNonWord.ReplaceAllString(out, " ")

	// 3) повторный проход по размерам: "200x50" / "200 by 50" могли появиться после чистки
	out = reDimGlyph.ReplaceAllString(out, "$1 x $2")
	out = reDimBy.ReplaceAllString(out, "$1 x $2")

	// 4) шумовые токены (projecta, rev2, v3) — целиком
	out = reNoiseToken.ReplaceAllString(out, " ")

	return collapseSpaces(out)
}

// Схлопывание пробелов
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
