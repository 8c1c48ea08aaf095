package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

var ErrAIAPIKeyMissing = errors.New("genai api key is not configured")

// AIEmbeddingService 调用 Gemini 的文本向量接口，为池中短歌生成检索向量。
// 向量只是附加数据，交换流程不依赖它。
type AIEmbeddingService struct {
	apiKey string
	model  string

	clientOnce sync.Once
	client     *genai.Client
	clientErr  error
}

// NewAIEmbeddingService creates an AIEmbeddingService instance.
func NewAIEmbeddingService(apiKey, model string) *AIEmbeddingService {
	model = strings.TrimSpace(model)
	if model == "" {
		model = "text-embedding-004"
	}
	return &AIEmbeddingService{
		apiKey: strings.TrimSpace(apiKey),
		model:  model,
	}
}

// Embed 为一段短歌文本生成向量
func (s *AIEmbeddingService) Embed(ctx context.Context, content string) ([]float64, error) {
	if s.apiKey == "" {
		return nil, ErrAIAPIKeyMissing
	}

	s.clientOnce.Do(func() {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  s.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			s.clientErr = fmt.Errorf("create genai client: %w", err)
			return
		}
		s.client = client
	})
	if s.clientErr != nil {
		return nil, s.clientErr
	}

	resp, err := s.client.Models.EmbedContent(ctx, s.model,
		genai.Text(content),
		&genai.EmbedContentConfig{TaskType: "RETRIEVAL_DOCUMENT"})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("genai returned no embedding")
	}

	values := resp.Embeddings[0].Values
	embedding := make([]float64, len(values))
	for i, v := range values {
		embedding[i] = float64(v)
	}
	return embedding, nil
}
