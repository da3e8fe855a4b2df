package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/types"
)

// ChatEngine is the text-generation backend: one prompt in, one completion
// out. Retrieval context is already assembled into the prompt by the caller.
type ChatEngine struct {
	config types.GeneratorConfig
	llm    llms.Model
}

// NewWithConfig creates a new ChatEngine with the given configuration.
func NewWithConfig(config types.GeneratorConfig) (*ChatEngine, error) {
	if config.Model == "" {
		config.Model = "orca-mini:7b"
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 2000
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	llm, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &ChatEngine{
		config: config,
		llm:    llm,
	}, nil
}

// Generate runs a single completion for the assembled prompt. The call is
// bounded by the configured timeout so a slow backend cannot stall the
// serving loop.
func (ce *ChatEngine) Generate(ctx context.Context, prompt string) (string, error) {
	if ce.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ce.config.Timeout)
		defer cancel()
	}

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	response, err := ce.llm.GenerateContent(ctx, content,
		llms.WithTemperature(ce.config.Temperature),
		llms.WithMaxTokens(ce.config.MaxTokens))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("generation timed out after %s: %w", ce.config.Timeout, err)
		}
		return "", fmt.Errorf("chat error: %w", err)
	}

	if response == nil || len(response.Choices) == 0 {
		return "", errors.New("no response from LLM")
	}
	return response.Choices[0].Content, nil
}
