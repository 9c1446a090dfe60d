// Package openai implements ports.Generator on the eino OpenAI chat model.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"
)

const defaultSystemPrompt = "You are Santosh, the assistant for Avasar, a citizen driven platform. " +
	"Answer the user's question in one short, friendly message. " +
	"If you do not know, say so briefly."

// Config holds the chat model settings.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	// SystemPrompt overrides the built-in persona prompt when non-empty.
	SystemPrompt string
}

// Generator produces ad hoc answers for messages no flow node matched.
// One Generate call per message, no retry.
type Generator struct {
	model        *openai.ChatModel
	systemPrompt string
}

// New creates a Generator. The underlying transport's default timeout is the
// only deadline applied to generation calls.
func New(ctx context.Context, cfg Config) (*Generator, error) {
	temperature := cfg.Temperature
	model, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("creating chat model: %w", err)
	}

	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	return &Generator{model: model, systemPrompt: prompt}, nil
}

// Reply implements ports.Generator.
func (g *Generator) Reply(ctx context.Context, text string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(g.systemPrompt),
		schema.UserMessage(text),
	}

	out, err := g.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}
	return strings.TrimSpace(out.Content), nil
}
