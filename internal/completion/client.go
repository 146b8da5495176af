// Package completion содержит клиент OpenAI-совместимого API:
// генерация ответов чата, эмбеддинги и список доступных моделей.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/config"
)

// Message — одно сообщение в запросе генерации.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Client struct {
	baseURL      string
	apiKey       string
	defaultModel string
	httpClient   *http.Client
}

// NewClient создаёт клиент провайдера генерации.
func NewClient(cfg config.Completion) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		defaultModel: cfg.DefaultModel,
		httpClient:   &http.Client{Timeout: cfg.CompletionTimeout},
	}
}

// DefaultModel возвращает модель, используемую при пустом значении в запросе.
func (c *Client) DefaultModel() string {
	return c.defaultModel
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.baseURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateChatResponse отправляет историю диалога провайдеру
// и возвращает текст ответа ассистента.
func (c *Client) GenerateChatResponse(ctx context.Context, messages []Message, model string, temperature float64, maxTokens int) (string, error) {
	const op = "completion.GenerateChatResponse"

	if model == "" {
		model = c.defaultModel
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/chat/completions", chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", op, errors.New("empty choices in response"))
	}
	return chatResp.Choices[0].Message.Content, nil
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// GenerateEmbedding возвращает векторное представление текста.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	const op = "completion.GenerateEmbedding"

	req, err := c.newRequest(ctx, http.MethodPost, "/embeddings", embeddingRequest{
		Model: "text-embedding-3-small",
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var embResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(embResp.Data) == 0 {
		return nil, fmt.Errorf("%s: %w", op, errors.New("empty data in response"))
	}
	return embResp.Data[0].Embedding, nil
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels возвращает идентификаторы моделей генерации,
// доступных по текущему ключу API.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	const op = "completion.ListModels"

	req, err := c.newRequest(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var modelsResp modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []string
	for _, m := range modelsResp.Data {
		if strings.HasPrefix(m.ID, "gpt") || strings.HasPrefix(m.ID, "claude") {
			result = append(result, m.ID)
		}
	}
	return result, nil
}
