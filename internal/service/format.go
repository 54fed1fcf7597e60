package service

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Prices are shown in VND with vi-VN digit grouping ("2.530.000 ₫").
var viPrinter = message.NewPrinter(language.Vietnamese)

func formatPrice(usd *float64, rate float64) string {
	if usd == nil {
		return "Liên hệ"
	}
	vnd := int64(math.Round(*usd * rate))
	return viPrinter.Sprintf("%d ₫", vnd)
}

func matchPercent(score float64) int {
	return int(math.Round(score * 100))
}

// sanitizeUTF8 removes invalid UTF-8 sequences. Model output occasionally
// carries broken sequences that would corrupt the JSON reply.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}
