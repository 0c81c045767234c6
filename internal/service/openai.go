package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"pecas/internal/config"
	"pecas/internal/utils"
)

// OpenAIClient handles OpenAI-compatible API interactions
type OpenAIClient struct {
	config     *config.OpenAIConfig
	httpClient *http.Client
}

// NewOpenAIClient creates a new OpenAI-compatible client
func NewOpenAIClient(cfg *config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIClient) IsEnabled() bool {
	return c != nil && c.config.Enabled
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat specifies the format of the response
type ResponseFormat struct {
	Type string `json:"type"` // "json_object" or "text"
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// AIIntentResponse is the JSON shape the classifier prompt asks for
type AIIntentResponse struct {
	Category   *string  `json:"category,omitempty"`
	Model      *string  `json:"model,omitempty"`
	PartType   *string  `json:"part_type,omitempty"`
	Spec       *string  `json:"spec,omitempty"`
	PriceMin   *float64 `json:"price_min,omitempty"`
	PriceMax   *float64 `json:"price_max,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// ChatCompletion performs a chat completion request
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("OpenAI API is not enabled (missing API key)")
	}

	if req.Model == "" {
		req.Model = c.config.ChatModel
	}
	if req.Temperature == 0 && c.config.Temperature > 0 {
		req.Temperature = c.config.Temperature
	}
	if req.MaxTokens == 0 && c.config.MaxTokens > 0 {
		req.MaxTokens = c.config.MaxTokens
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.config.APIBase)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}

// ParseIntentWithAI asks the model to classify a customer query into
// catalog slots. The deterministic extractor remains the source of truth;
// this only fills slots the regex pass could not.
func (c *OpenAIClient) ParseIntentWithAI(ctx context.Context, query string) (*AIIntentResponse, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("OpenAI API is not enabled")
	}

	systemPrompt := `Você é um assistente de balcão de uma revenda de equipamentos STIHL (motosserras, roçadeiras e peças de reposição). Interprete a pergunta do cliente e extraia filtros estruturados.

Extraia os campos abaixo quando presentes:
- category: tipo de equipamento, um de: "motosserra", "roçadeira", "peça" (string)
- model: código de modelo como MS162, FS221, FR410 (string, maiúsculas)
- part_type: tipo de peça, um de: "filtro", "carburador", "silenciador", "tampa", "luva", "engrenagem", "plaqueta", "junta", "pistao", "lamina", "corrente", "sabre", "pinhao" (string, sem acentos)
- spec: qualificador da peça, um de: "de ar", "do ar", "de óleo", "do óleo", "de combustível", "do combustível" (string)
- price_min: preço mínimo em reais (número)
- price_max: preço máximo em reais (número)
- keywords: palavras importantes para busca textual (array de strings)
- confidence: sua confiança de 0 a 1 (número)

Regras:
- Responda SOMENTE com JSON válido
- Omita campos não mencionados
- "100 reais", "R$ 100" = 100
- Não invente modelos nem códigos de material

Exemplos:
Pergunta: "preciso de um filtro de ar pra minha MS162"
Resposta: {"part_type": "filtro", "spec": "de ar", "model": "MS162", "keywords": ["filtro", "ar"], "confidence": 0.95}

Pergunta: "carburador da roçadeira FS221 até 300 reais"
Resposta: {"category": "roçadeira", "part_type": "carburador", "model": "FS221", "price_max": 300, "keywords": ["carburador"], "confidence": 0.9}

Pergunta: "quanto custa uma corrente de motosserra"
Resposta: {"category": "motosserra", "part_type": "corrente", "keywords": ["corrente"], "confidence": 0.85}`

	req := ChatCompletionRequest{
		Model: c.config.ChatModel,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	resp, err := c.ChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	var result AIIntentResponse
	content := resp.Choices[0].Message.Content
	if err := utils.DecodeLooseJSON(content, &result); err != nil {
		log.Printf("Failed to parse AI response, content: %s", content)
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	if err := validateIntentResponse(&result); err != nil {
		return nil, fmt.Errorf("AI response validation failed: %w", err)
	}

	return &result, nil
}

var validCategories = map[string]bool{
	"motosserra": true, "roçadeira": true, "peça": true,
}

var validSpecs = map[string]bool{
	"de ar": true, "do ar": true,
	"de óleo": true, "do óleo": true,
	"de combustível": true, "do combustível": true,
}

// validateIntentResponse rejects classifier output that breaks the closed
// vocabularies, so a hallucinated slot never reaches the fetcher.
func validateIntentResponse(resp *AIIntentResponse) error {
	if resp.PriceMin != nil && resp.PriceMax != nil && *resp.PriceMin > *resp.PriceMax {
		return fmt.Errorf("price_min (%f) cannot be greater than price_max (%f)", *resp.PriceMin, *resp.PriceMax)
	}
	if resp.Category != nil && !validCategories[*resp.Category] {
		return fmt.Errorf("invalid category: %s", *resp.Category)
	}
	if resp.Spec != nil && !validSpecs[*resp.Spec] {
		return fmt.Errorf("invalid spec: %s", *resp.Spec)
	}
	if resp.PartType != nil && !isKnownPartType(*resp.PartType) {
		return fmt.Errorf("invalid part_type: %s", *resp.PartType)
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0 and 1")
	}
	return nil
}

func isKnownPartType(p string) bool {
	switch p {
	case "filtro", "carburador", "silenciador", "tampa", "luva",
		"engrenagem", "plaqueta", "junta", "pistao",
		"lamina", "corrente", "sabre", "pinhao":
		return true
	}
	return false
}
