package service

import (
	"context"
	"fmt"
	"strings"

	"shopsmart/internal/models"
	"shopsmart/pkg/config"
	"shopsmart/pkg/retry"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const systemInstruction = `Bạn là trợ lý AI của trang thương mại điện tử ShopSmart. Luôn trả lời bằng tiếng Việt, ngắn gọn và thân thiện, và làm theo đúng hướng dẫn trong từng yêu cầu.`

// LLMService is the generation client: one prompt in, one completion out.
// Throttling and unavailability signals from the provider are retried with a
// linearly growing delay; everything else fails the call immediately.
type LLMService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	cfg    *config.GigaChatConfig
	logger *zap.Logger
}

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = systemInstruction
	model.Temperature = 0.3

	return &LLMService{
		client: client,
		model:  model,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Generate sends one prompt and returns the completion text. It retries only
// throttle/unavailable failures, up to cfg.MaxAttempts total, waiting
// RetryBaseDelay * attempt between tries. Exhausting the budget surfaces
// models.ErrUpstreamUnavailable.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := retry.Do(ctx, s.cfg.MaxAttempts, retry.Linear(s.cfg.RetryBaseDelay), isThrottled,
		func(ctx context.Context) (string, error) {
			resp, err := s.model.Generate(ctx, []gigago.Message{
				{Role: gigago.RoleUser, Content: prompt},
			})
			if err != nil {
				return "", err
			}
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("no response from LLM")
			}
			return strings.TrimSpace(resp.Choices[0].Message.Content), nil
		})
	if err != nil {
		if isThrottled(err) {
			s.logger.Error("Generation retries exhausted", zap.Error(err))
			return "", fmt.Errorf("generate: %w: %v", models.ErrUpstreamUnavailable, err)
		}
		return "", fmt.Errorf("generate: %w", err)
	}

	return text, nil
}

// isThrottled reports whether the provider error is a rate-limit or
// service-unavailable signal worth retrying.
func isThrottled(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "too many requests", "rate limit", "503", "unavailable"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
