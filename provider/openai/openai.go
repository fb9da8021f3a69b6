package openai_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completion is the parsed result of a chat completion call.
type Completion struct {
	Content          string `json:"content"`
	Model            string `json:"model,omitempty"`
	PromptTokens     int64  `json:"prompt_tokens,omitempty"`
	CompletionTokens int64  `json:"completion_tokens,omitempty"`
}

// Client calls the OpenAI chat completions API. It is constructed explicitly
// and injected; there is no package-level singleton.
type Client struct {
	apiKey          string
	completionModel string
	analysisModel   string
	temperature     float64
	maxTokens       int
	httpClient      *http.Client
}

// request represents a request to the OpenAI API
type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// response represents a response from the OpenAI API
type response struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

// NewClient creates a new OpenAI client. analysisModel is used for intent
// classification calls and may equal completionModel.
func NewClient(apiKey, completionModel, analysisModel string, temperature float64, maxTokens int, timeout time.Duration) *Client {
	if completionModel == "" {
		completionModel = "gpt-4o-mini"
	}
	if analysisModel == "" {
		analysisModel = completionModel
	}
	return &Client{
		apiKey:          apiKey,
		completionModel: completionModel,
		analysisModel:   analysisModel,
		temperature:     temperature,
		maxTokens:       maxTokens,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

// Complete sends the message sequence to the completion model and returns the
// assistant reply with token usage.
func (c *Client) Complete(ctx context.Context, messages []Message) (Completion, error) {
	return c.send(ctx, c.completionModel, messages)
}

const analysisSystemPrompt = `You analyze questions sent to a university information portal.
Respond ONLY with a valid JSON object of this exact shape:
{
  "intent": "short label for what record category the user wants",
  "keywords": ["significant", "words", "from", "the", "question"],
  "expandedKeywords": ["optional", "synonyms"],
  "entities": {"dates": [], "locations": [], "departments": [], "organizations": []},
  "queryType": "search | info | question | comparison",
  "timeReference": "past | present | future | any"
}
Do not include any other text or explanation.`

// Analyze asks the analysis model to classify a question. The caller is
// responsible for parsing the returned text; transport failures surface as
// errors so the caller can degrade.
func (c *Client) Analyze(ctx context.Context, question string) (string, error) {
	messages := []Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: question},
	}
	out, err := c.send(ctx, c.analysisModel, messages)
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

func (c *Client) send(ctx context.Context, model string, messages []Message) (Completion, error) {
	requestBody := request{
		Model:       model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return Completion{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", chatCompletionsURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return Completion{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Completion{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Completion{}, fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var openaiResp response
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return Completion{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(openaiResp.Choices) == 0 {
		return Completion{}, fmt.Errorf("no choices in response")
	}

	return Completion{
		Content:          openaiResp.Choices[0].Message.Content,
		Model:            openaiResp.Model,
		PromptTokens:     openaiResp.Usage.PromptTokens,
		CompletionTokens: openaiResp.Usage.CompletionTokens,
	}, nil
}
