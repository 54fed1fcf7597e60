package service

import (
	"context"
	"fmt"
	"strings"

	"shopsmart/internal/models"

	"go.uber.org/zap"
)

// Generator is the generation client contract the router and orchestrator
// depend on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const routerPrompt = `Bạn là bộ định tuyến yêu cầu của trợ lý AI ShopSmart.

THÔNG TIN CỬA HÀNG:
- Tên: ShopSmart
- Địa chỉ: 123 Nguyễn Văn Linh, Quận 7, TP. Hồ Chí Minh
- Giờ mở cửa: 8h00 - 21h30 hằng ngày
- Giao hàng: miễn phí nội thành cho đơn từ 500.000đ, toàn quốc 2-4 ngày

Phân loại tin nhắn của khách vào đúng MỘT trong bốn dạng sau và trả về đúng MỘT dòng, không giải thích gì thêm:

1. GET_CATEGORIES
   - Khi khách hỏi shop bán những gì, có những loại sản phẩm nào.
2. RECOMMEND: <từ khóa>
   - Khi khách muốn được gợi ý sản phẩm. Nếu không rõ loại nào, dùng: RECOMMEND: all
3. SEARCH: <từ khóa>
   - Khi khách tìm một sản phẩm cụ thể.
4. CHAT: <câu trả lời>
   - Câu hỏi xã giao hoặc không liên quan sản phẩm: tự trả lời ngắn gọn bằng tiếng Việt, dùng thông tin cửa hàng ở trên nếu phù hợp.

QUY TẮC TỪ KHÓA:
- Dịch danh từ chỉ loại sản phẩm sang tiếng Anh (giày -> shoes, sách -> book, điện thoại -> phone).
- GIỮ NGUYÊN tên riêng, thương hiệu, mã model (nike, iphone 15, asus rog).
- Ví dụ: "đỏ giày nike" -> SEARCH: nike shoes red

TIN NHẮN CỦA KHÁCH: "%s"`

// RouterService classifies one customer message with a single generation call
// and parses the reply with a fixed-prefix grammar.
type RouterService struct {
	generator Generator
	logger    *zap.Logger
}

func NewRouterService(generator Generator, logger *zap.Logger) *RouterService {
	return &RouterService{
		generator: generator,
		logger:    logger,
	}
}

// Classify returns the routing decision for a message. Off-grammar model
// output yields IntentUnknown, never an error; only generation failures
// propagate.
func (s *RouterService) Classify(ctx context.Context, message string) (models.Decision, error) {
	raw, err := s.generator.Generate(ctx, fmt.Sprintf(routerPrompt, message))
	if err != nil {
		return models.Decision{}, fmt.Errorf("classify: %w", err)
	}

	decision := parseDecision(raw)
	if decision.Intent == models.IntentUnknown {
		s.logger.Warn("Router output did not match grammar", zap.String("output", raw))
	}

	return decision, nil
}

func parseDecision(raw string) models.Decision {
	text := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(text, "GET_CATEGORIES"):
		return models.Decision{Intent: models.IntentListCategories}

	case strings.HasPrefix(text, "RECOMMEND:"):
		target := strings.TrimSpace(firstLine(strings.TrimPrefix(text, "RECOMMEND:")))
		return models.Decision{Intent: models.IntentRecommend, Target: target}

	case strings.HasPrefix(text, "SEARCH:"):
		keyword := strings.TrimSpace(firstLine(strings.TrimPrefix(text, "SEARCH:")))
		keyword = strings.Trim(keyword, `"'“”`)
		return models.Decision{Intent: models.IntentSearch, Target: strings.TrimSpace(keyword)}

	case strings.HasPrefix(text, "CHAT:"):
		// Keep the full remainder: chitchat answers may span lines.
		reply := strings.TrimSpace(strings.TrimPrefix(text, "CHAT:"))
		return models.Decision{Intent: models.IntentChat, Reply: reply}

	default:
		return models.Decision{Intent: models.IntentUnknown}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
