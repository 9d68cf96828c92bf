package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var rxKeepNums = regexp.MustCompile(`[^\d\.\-]`)

// ParseFloat парсит "1 234,50", "197 ,00", "2 345.6" (NBSP/NNBSP) и т.п.
func ParseFloat(s string) (float64, bool) {
	s = cleanNumeric(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// ParseDecimal — то же для денег: без плавающей точки, через decimal.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = cleanNumeric(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	return d, err == nil
}

func cleanNumeric(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// убрать неразрывные/узкие пробелы и обычные пробелы, запятая → точка
	repl := strings.NewReplacer("\u00A0", "", "\u202F", "", " ", "", "\t", "", ",", ".")
	s = repl.Replace(s)
	// оставить только цифры, точку и минус (на случай мусора)
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return ""
	}
	return s
}
