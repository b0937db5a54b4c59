package inference

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/casetrail/evidence-api/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

const analysisPrompt = `You are a forensic video analyst. Analyze the video evidence at reference %q (file name: %s) and answer the investigator's question.

Question: %s

Respond with JSON only, in this exact shape:
{"summary": "<one paragraph answer>", "findings": [{"startTime": <seconds>, "endTime": <seconds>, "summary": "<what happens>", "confidence": <0..1>}]}

Return an empty findings array if nothing relevant is visible.`

// Config holds inference client settings
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}

// Client calls the remote analysis model and normalizes its response
type Client struct {
	api    *openai.Client
	config Config
}

// NewClient creates a new inference client
func NewClient(config Config) *Client {
	apiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		apiConfig.BaseURL = config.BaseURL
	}

	if config.Model == "" {
		config.Model = openai.GPT4o
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 2000
	}

	return &Client{
		api:    openai.NewClientWithConfig(apiConfig),
		config: config,
	}
}

// Analyze asks the model about stored evidence and returns normalized
// findings. The response is untrusted input: a call that cannot be
// parsed into findings is an INFERENCE_FAILURE, never a panic.
func (c *Client) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	prompt := fmt.Sprintf(analysisPrompt, req.EvidenceReference, req.EvidenceName, req.Prompt)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return nil, errors.InferenceFailure(err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.InferenceFailure(fmt.Errorf("no response choices from model %s", model))
	}

	content := resp.Choices[0].Message.Content
	summary, events, ok := parseFindings(content)
	if !ok {
		log.Printf("[WARN] Unparseable analysis response (%d bytes)", len(content))
		return nil, errors.InferenceFailure(fmt.Errorf("response is not a findings payload"))
	}

	if summary == "" {
		summary = content
	}

	log.Printf("[INFO] Analysis produced %d finding(s)", len(events))

	return &AnalysisResult{
		Summary: summary,
		Events:  events,
	}, nil
}
