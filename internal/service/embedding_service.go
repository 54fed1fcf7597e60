package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"shopsmart/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmbeddingService converts text into a fixed-length vector via the GigaChat
// embeddings endpoint. The SDK does not cover /embeddings, so this speaks to
// the REST API directly with the OAuth access-token flow.
type EmbeddingService struct {
	cfg        *config.GigaChatConfig
	httpClient *http.Client
	logger     *zap.Logger
	baseURL    string
	oauthURL   string

	mu          sync.Mutex
	accessToken string
}

func NewEmbeddingService(cfg *config.GigaChatConfig, logger *zap.Logger) (*EmbeddingService, error) {
	httpClient := &http.Client{}
	if cfg.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	s := &EmbeddingService{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
		// Documentation: https://developers.sber.ru/docs/ru/gigachat/api/main
		baseURL:  "https://gigachat.devices.sberbank.ru/api/v1",
		oauthURL: "https://ngw.devices.sberbank.ru:9443/api/v2/oauth",
	}

	token, err := s.fetchAccessToken(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}
	s.accessToken = token

	return s, nil
}

// Embed returns the embedding vector for the given text. An expired access
// token is refreshed once and the call repeated.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, status, err := s.embedOnce(ctx, text)
	if status == http.StatusUnauthorized {
		token, refreshErr := s.fetchAccessToken(ctx)
		if refreshErr != nil {
			return nil, fmt.Errorf("embed: token refresh failed: %w", refreshErr)
		}
		s.setToken(token)
		vector, _, err = s.embedOnce(ctx, text)
	}
	if err != nil {
		return nil, err
	}

	return vector, nil
}

func (s *EmbeddingService) embedOnce(ctx context.Context, text string) ([]float32, int, error) {
	requestBody := map[string]any{
		"model": s.cfg.EmbeddingModel,
		"input": []string{text},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, 0, fmt.Errorf("embed: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, fmt.Errorf("embed: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("embed: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, resp.StatusCode, fmt.Errorf("embed: status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var embResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("embed: failed to decode response: %w", err)
	}
	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, resp.StatusCode, fmt.Errorf("embed: empty embedding in response")
	}

	return embResp.Data[0].Embedding, resp.StatusCode, nil
}

// fetchAccessToken obtains an access token from the GigaChat OAuth endpoint.
// The API key is already Base64-encoded per the GigaChat docs.
func (s *EmbeddingService) fetchAccessToken(ctx context.Context) (string, error) {
	rqUID := uuid.New().String()

	formData := url.Values{}
	formData.Set("scope", s.cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, "POST", s.oauthURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create OAuth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", rqUID)
	req.Header.Set("Authorization", "Basic "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OAuth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		s.logger.Error("OAuth request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("rq_uid", rqUID),
		)
		return "", fmt.Errorf("OAuth failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var oauthResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&oauthResp); err != nil {
		return "", fmt.Errorf("failed to decode OAuth response: %w", err)
	}
	if oauthResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token in OAuth response")
	}

	return oauthResp.AccessToken, nil
}

func (s *EmbeddingService) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *EmbeddingService) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}
