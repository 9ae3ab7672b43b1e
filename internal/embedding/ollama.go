package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/AhmadRaza24h/Veritas/internal/apperr"
)

const defaultTimeout = 60 * time.Second

type OllamaOption func(client *OllamaClient)

// OllamaClient implements Embedder against an Ollama server.
type OllamaClient struct {
	base  url.URL
	model string
	http  *http.Client
}

func NewOllamaClient(baseURL, model string, opts ...OllamaOption) (*OllamaClient, error) {
	if model == "" {
		return nil, apperr.NewValidation("missing embedding model name")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	client := &OllamaClient{
		base:  *base,
		model: model,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func WithHTTPClient(httpClient *http.Client) OllamaOption {
	return func(client *OllamaClient) {
		client.http = httpClient
	}
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type ollamaBatchRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaBatchResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (oc *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, apperr.NewValidation("missing text to embed")
	}

	var resp ollamaEmbedResponse
	if err := oc.do(ctx, "/api/embeddings", ollamaEmbedRequest{Model: oc.model, Prompt: text}, &resp); err != nil {
		return nil, err
	}

	return resp.Embedding, nil
}

func (oc *OllamaClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp ollamaBatchResponse
	if err := oc.do(ctx, "/api/embed", ollamaBatchRequest{Model: oc.model, Input: texts}, &resp); err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	return resp.Embeddings, nil
}

func (oc *OllamaClient) do(ctx context.Context, path string, reqData, respData any) error {
	reqDataBytes, err := json.Marshal(reqData)
	if err != nil {
		return err
	}

	reqURL := oc.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(reqDataBytes))
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	resp, err := oc.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
