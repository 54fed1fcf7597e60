package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"shopsmart/internal/models"
	"shopsmart/pkg/config"

	"go.uber.org/zap"
)

// IntentClassifier routes one message to a decision.
type IntentClassifier interface {
	Classify(ctx context.Context, message string) (models.Decision, error)
}

// ProductStore is the slice of the catalog store the orchestrator reads from.
type ProductStore interface {
	KeywordSearch(ctx context.Context, term string, limit int) ([]*models.Product, error)
	SimilaritySearch(ctx context.Context, vector []float32, threshold float64, limit int) ([]models.ScoredProduct, error)
	TopRated(ctx context.Context, limit int, keyword string) ([]*models.Product, error)
}

type CategoryStore interface {
	ListNames(ctx context.Context) ([]string, error)
}

const (
	replyBusy       = "Trợ lý đang hơi bận, bạn vui lòng thử lại sau ít phút nhé! 🙏"
	replyClarify    = "Mình chưa hiểu ý bạn lắm, bạn có thể nói rõ hơn được không? 🤔"
	replyNeedTerm   = "Bạn muốn tìm sản phẩm gì? Cho mình xin tên hoặc từ khóa cụ thể nhé! 🔍"
	replyNoCatalog  = "Hiện tại mình chưa xem được danh mục sản phẩm, bạn thử lại sau một chút nhé! 🙏"
	noMatchContext  = "Hiện tại không tìm thấy sản phẩm nào khớp trong dữ liệu."
	recommendAll    = "all"
	categoriesReply = "ShopSmart hiện đang bán các nhóm sản phẩm: %s. Bạn quan tâm nhóm nào để mình tư vấn kỹ hơn nhé! 🛍️"
)

const recommendPrompt = `Bạn là trợ lý AI của ShopSmart. Dưới đây là các sản phẩm bán chạy nhất tìm được trong kho:

%s

CÂU HỎI CỦA KHÁCH: "%s"

Hãy viết một đoạn giới thiệu ngắn gọn, thân thiện bằng tiếng Việt, kèm emoji phù hợp.
NGUYÊN TẮC:
1. CHỈ nhắc tới các sản phẩm trong danh sách trên, KHÔNG bịa thêm.
2. Giữ nguyên giá đã định dạng sẵn.
3. Nếu danh sách báo không có sản phẩm, hãy xin lỗi và mời khách thử từ khóa khác.`

const searchPrompt = `Bạn là trợ lý AI của ShopSmart. Kết quả tìm kiếm trong kho cho yêu cầu của khách:

%s

CÂU HỎI CỦA KHÁCH: "%s"

Hãy tư vấn cho khách bằng tiếng Việt, ngắn gọn, thân thiện, kèm emoji phù hợp.
NGUYÊN TẮC:
1. CHỈ tư vấn các sản phẩm trong danh sách trên, KHÔNG bịa đặt thông tin.
2. Giữ nguyên giá đã định dạng sẵn.
3. Nếu không có sản phẩm nào khớp, hãy xin lỗi và gợi ý khách thử từ khóa khác.`

// ChatService is the per-turn orchestrator: classify, retrieve grounding
// data, generate. Every turn is independent; no state is kept between calls.
type ChatService struct {
	router     IntentClassifier
	generator  Generator
	embedder   Embedder
	products   ProductStore
	categories CategoryStore
	cfg        *config.ChatConfig
	logger     *zap.Logger
}

func NewChatService(
	router IntentClassifier,
	generator Generator,
	embedder Embedder,
	products ProductStore,
	categories CategoryStore,
	cfg *config.ChatConfig,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		router:     router,
		generator:  generator,
		embedder:   embedder,
		products:   products,
		categories: categories,
		cfg:        cfg,
		logger:     logger,
	}
}

// HandleMessage processes one chat turn and always returns a user-facing
// reply. Upstream failures degrade to fixed replies; a raw error never
// reaches the customer.
func (s *ChatService) HandleMessage(ctx context.Context, message string) string {
	decision, err := s.router.Classify(ctx, message)
	if err != nil {
		s.logger.Error("Intent classification failed", zap.Error(err))
		return replyBusy
	}

	switch decision.Intent {
	case models.IntentListCategories:
		return s.handleCategories(ctx)
	case models.IntentRecommend:
		return s.handleRecommend(ctx, decision.Target, message)
	case models.IntentSearch:
		return s.handleSearch(ctx, decision.Target, message)
	case models.IntentChat:
		return sanitizeUTF8(decision.Reply)
	default:
		return replyClarify
	}
}

// handleCategories answers from the store directly; no second generation call.
func (s *ChatService) handleCategories(ctx context.Context) string {
	names, err := s.categories.ListNames(ctx)
	if err != nil {
		s.logger.Warn("Category listing degraded", zap.Error(err))
		return replyNoCatalog
	}
	if len(names) == 0 {
		return replyNoCatalog
	}

	return fmt.Sprintf(categoriesReply, strings.Join(names, ", "))
}

func (s *ChatService) handleRecommend(ctx context.Context, target, message string) string {
	keyword := strings.TrimSpace(target)
	if keyword == recommendAll {
		keyword = ""
	}

	items, err := s.products.TopRated(ctx, s.cfg.SearchLimit, keyword)
	if err != nil {
		s.logger.Warn("Top-rated lookup degraded to empty context", zap.Error(err))
		items = nil
	}

	grounding := noMatchContext
	if len(items) > 0 {
		lines := make([]string, 0, len(items))
		for i, p := range items {
			lines = append(lines, fmt.Sprintf("%d: %s - %s (%d rating)",
				i+1, p.Title, formatPrice(p.Price, s.cfg.ExchangeRate), p.RatingNumber))
		}
		grounding = strings.Join(lines, "\n")
	}

	return s.respond(ctx, fmt.Sprintf(recommendPrompt, grounding, message))
}

func (s *ChatService) handleSearch(ctx context.Context, target, message string) string {
	keyword := strings.TrimSpace(target)
	if !hasQueryContent(keyword) {
		// Never reaches the embedding or store layer without a usable term.
		return replyNeedTerm
	}

	grounding := s.searchGrounding(ctx, keyword)

	return s.respond(ctx, fmt.Sprintf(searchPrompt, grounding, message))
}

// hasQueryContent reports whether the keyword carries at least one letter or
// digit. Empty or punctuation-only targets ("...", "?") are not searchable.
func hasQueryContent(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// searchGrounding tries vector similarity first and falls back to keyword
// full-text search when the semantic path yields nothing.
func (s *ChatService) searchGrounding(ctx context.Context, keyword string) string {
	var scored []models.ScoredProduct

	vector, err := s.embedder.Embed(ctx, keyword)
	if err != nil {
		s.logger.Warn("Query embedding failed, falling back to keyword search", zap.Error(err))
	} else {
		scored, err = s.products.SimilaritySearch(ctx, vector, s.cfg.SimilarityThreshold, s.cfg.SearchLimit)
		if err != nil {
			s.logger.Warn("Similarity search degraded to empty context", zap.Error(err))
			scored = nil
		}
	}

	if len(scored) > 0 {
		lines := make([]string, 0, len(scored))
		for _, sp := range scored {
			lines = append(lines, fmt.Sprintf("%s: %s (%d%% match)",
				sp.Product.Title, formatPrice(sp.Product.Price, s.cfg.ExchangeRate), matchPercent(sp.Score)))
		}
		return strings.Join(lines, "\n")
	}

	items, err := s.products.KeywordSearch(ctx, keyword, s.cfg.SearchLimit)
	if err != nil {
		s.logger.Warn("Keyword search degraded to empty context", zap.Error(err))
		items = nil
	}
	if len(items) == 0 {
		return noMatchContext
	}

	lines := make([]string, 0, len(items))
	for _, p := range items {
		lines = append(lines, fmt.Sprintf("%s: %s", p.Title, formatPrice(p.Price, s.cfg.ExchangeRate)))
	}
	return strings.Join(lines, "\n")
}

// respond runs the grounded generation call and absorbs its failure into the
// busy reply.
func (s *ChatService) respond(ctx context.Context, prompt string) string {
	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("Grounded generation failed", zap.Error(err))
		return replyBusy
	}

	return sanitizeUTF8(reply)
}
