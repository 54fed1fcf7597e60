package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shopsmart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Decision
	}{
		{
			name: "categories",
			raw:  "GET_CATEGORIES",
			want: models.Decision{Intent: models.IntentListCategories},
		},
		{
			name: "categories with surrounding whitespace",
			raw:  "  GET_CATEGORIES\n",
			want: models.Decision{Intent: models.IntentListCategories},
		},
		{
			name: "recommend",
			raw:  "RECOMMEND: book",
			want: models.Decision{Intent: models.IntentRecommend, Target: "book"},
		},
		{
			name: "recommend all sentinel",
			raw:  "RECOMMEND: all",
			want: models.Decision{Intent: models.IntentRecommend, Target: "all"},
		},
		{
			name: "search",
			raw:  "SEARCH: nike shoes red",
			want: models.Decision{Intent: models.IntentSearch, Target: "nike shoes red"},
		},
		{
			name: "search strips quotes",
			raw:  `SEARCH: "nike shoes red"`,
			want: models.Decision{Intent: models.IntentSearch, Target: "nike shoes red"},
		},
		{
			name: "search keeps only first line",
			raw:  "SEARCH: iphone 15\nghi chú thêm của model",
			want: models.Decision{Intent: models.IntentSearch, Target: "iphone 15"},
		},
		{
			name: "search with empty target",
			raw:  "SEARCH:",
			want: models.Decision{Intent: models.IntentSearch, Target: ""},
		},
		{
			name: "chat keeps full remainder",
			raw:  "CHAT: 2 + 2 = 4.\nBạn cần gì thêm không?",
			want: models.Decision{Intent: models.IntentChat, Reply: "2 + 2 = 4.\nBạn cần gì thêm không?"},
		},
		{
			name: "off-grammar output is unroutable",
			raw:  "Xin chào, tôi có thể giúp gì?",
			want: models.Decision{Intent: models.IntentUnknown},
		},
		{
			name: "empty output is unroutable",
			raw:  "",
			want: models.Decision{Intent: models.IntentUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDecision(tt.raw))
		})
	}
}

func TestClassifySendsMessageInPrompt(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"SEARCH: nike shoes red"}}
	router := NewRouterService(gen, zap.NewNop())

	decision, err := router.Classify(context.Background(), "giày nike đỏ")
	require.NoError(t, err)

	assert.Equal(t, models.IntentSearch, decision.Intent)
	assert.Equal(t, "nike shoes red", decision.Target)
	require.Len(t, gen.prompts, 1)
	assert.True(t, strings.Contains(gen.prompts[0], `"giày nike đỏ"`))
}

func TestClassifyPropagatesGenerationError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	router := NewRouterService(gen, zap.NewNop())

	_, err := router.Classify(context.Background(), "hello")
	assert.Error(t, err)
}
