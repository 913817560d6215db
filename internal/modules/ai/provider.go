package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	"github.com/studybuddy/core/internal/config"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
)

const (
	defaultGeminiEndpoint     = "https://generativelanguage.googleapis.com"
	defaultOpenRouterEndpoint = "https://openrouter.ai/api"
	defaultOpenAIEndpoint     = "https://api.openai.com"

	generateMaxOutputTokens = 2048
)

var (
	errEmptyResponse     = errors.New("empty response from provider")
	errMissingCredential = errors.New("provider api key is missing")
)

// Backend is one text-generation provider in the gateway's ordered list.
type Backend interface {
	ID() string
	Name() string
	// Configured reports whether the backend has a usable credential.
	// Unconfigured backends are skipped during fallback.
	Configured() bool
	// Generate runs a single attempt bounded by ctx.
	Generate(ctx context.Context, prompt string) (string, error)
}

// providerBackend adapts one configured provider to the Backend interface.
type providerBackend struct {
	cfg    config.AIProvider
	client *http.Client
}

// BuildBackends converts the configured provider list into gateway backends,
// preserving order.
func BuildBackends(providers []config.AIProvider) []Backend {
	client := &http.Client{}
	backends := make([]Backend, 0, len(providers))
	for _, p := range providers {
		backends = append(backends, &providerBackend{cfg: p, client: client})
	}
	return backends
}

func (b *providerBackend) ID() string       { return b.cfg.ID }
func (b *providerBackend) Name() string     { return b.cfg.Name }
func (b *providerBackend) Configured() bool { return b.cfg.Configured() }

func (b *providerBackend) Generate(ctx context.Context, prompt string) (string, error) {
	if !b.Configured() {
		return "", errMissingCredential
	}

	switch normalizeProviderType(b.cfg.Type) {
	case "gemini":
		return b.callGemini(ctx, prompt)
	case "anthropic":
		return b.callLanguageModel(ctx, prompt)
	case "openai":
		return b.callLanguageModel(ctx, prompt)
	default:
		// openrouter and any openai-compatible endpoint speak the
		// chat-completions protocol directly.
		return b.callChatCompletions(ctx, prompt)
	}
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	if t == "openaicompatible" {
		return "openai-compatible"
	}
	return t
}

// callGemini issues a generateContent request against the Gemini REST API.
func (b *providerBackend) callGemini(ctx context.Context, prompt string) (string, error) {
	endpoint := strings.TrimRight(firstNonEmpty(b.cfg.Endpoint, defaultGeminiEndpoint), "/")
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", endpoint, b.cfg.Model)

	body, _ := json.Marshal(map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", strings.TrimSpace(b.cfg.APIKey))

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("gemini error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if len(result.Candidates) == 0 {
		return "", errEmptyResponse
	}

	var full strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		full.WriteString(part.Text)
	}
	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

// callChatCompletions speaks the OpenAI chat-completions protocol, which
// OpenRouter and openai-compatible providers share.
func (b *providerBackend) callChatCompletions(ctx context.Context, prompt string) (string, error) {
	endpoint := strings.TrimRight(b.cfg.Endpoint, "/")
	if endpoint == "" {
		if normalizeProviderType(b.cfg.Type) == "openrouter" {
			endpoint = defaultOpenRouterEndpoint
		} else {
			endpoint = defaultOpenAIEndpoint
		}
	}
	endpoint = strings.TrimSuffix(endpoint, "/v1")

	body, _ := json.Marshal(map[string]interface{}{
		"model": b.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(b.cfg.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("chat completions error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("chat completions error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errEmptyResponse
	}

	text := result.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

// callLanguageModel routes OpenAI and Anthropic providers through their SDKs.
func (b *providerBackend) callLanguageModel(ctx context.Context, prompt string) (string, error) {
	model, err := b.buildLanguageModel()
	if err != nil {
		return "", err
	}

	resp, err := jetai.GenerateText(
		ctx,
		[]jetapi.Message{&jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)}},
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(generateMaxOutputTokens),
	)
	if err != nil {
		return "", err
	}
	return extractTextFromResponse(resp)
}

func (b *providerBackend) buildLanguageModel() (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(b.cfg.APIKey)
	endpoint := strings.TrimSpace(b.cfg.Endpoint)

	if normalizeProviderType(b.cfg.Type) == "anthropic" {
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(b.cfg.Model, jetanthropic.WithClient(client)), nil
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if endpoint != "" {
		opts = append(opts, openaioption.WithBaseURL(strings.TrimRight(endpoint, "/")))
	}
	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(b.cfg.Model, jetopenai.WithClient(client)), nil
}

func extractTextFromResponse(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errEmptyResponse
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

func firstNonEmpty(primary, fallback string) string {
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	return fallback
}
