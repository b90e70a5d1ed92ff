package inference

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for the hosted Whisper backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // default: OpenAI's public API
	Model   string // default: whisper-1
}

// OpenAIProvider transcribes audio through the OpenAI audio API (or any
// compatible endpoint).
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAIProvider with defaults applied.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai-whisper" }

func (p *OpenAIProvider) Transcribe(ctx context.Context, req Request) (*Result, error) {
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: req.FilePath,
	})
	if err != nil {
		return nil, &Error{Provider: p.Name(), Err: err}
	}
	return &Result{Text: resp.Text}, nil
}
