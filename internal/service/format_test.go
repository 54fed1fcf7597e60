package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "2.529.075 ₫", formatPrice(usd(95.9), 26372))
	assert.Equal(t, "263.720 ₫", formatPrice(usd(10), 26372))
	assert.Equal(t, "Liên hệ", formatPrice(nil, 26372))
}

func TestMatchPercent(t *testing.T) {
	assert.Equal(t, 87, matchPercent(0.873))
	assert.Equal(t, 45, matchPercent(0.45))
	assert.Equal(t, 100, matchPercent(1.0))
}

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "giày chạy bộ", sanitizeUTF8("giày chạy bộ"))
	assert.Equal(t, "abc", sanitizeUTF8("ab\xffc"))
	assert.Equal(t, "", sanitizeUTF8("\xff\xfe"))
}
