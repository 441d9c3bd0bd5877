package main

import (
	"fmt"

	"github.com/aktagon/llmkit/anthropic/agents"
)

// StoryExtractor runs the LLM structured-extraction strategy against one
// page's markdown content. It keeps no state between invocations; repair of
// malformed output happens downstream.
type StoryExtractor struct {
	agent       *agents.ChatAgent
	instruction string
	schema      string
	maxTokens   int
	temperature float64
}

// NewStoryExtractor creates an extractor with the configured instruction
// prompt and story schema.
func NewStoryExtractor(apiKey string, config *Config) (*StoryExtractor, error) {
	agent, err := agents.New(apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating extraction agent: %w", err)
	}

	return &StoryExtractor{
		agent:       agent,
		instruction: config.GetExtractionInstruction(),
		schema:      config.GetStorySchema(),
		maxTokens:   config.Settings.Extractor.MaxTokens,
		temperature: config.Settings.Extractor.Temperature,
	}, nil
}

// Extract sends page content to the model and returns the raw response text.
// The response is semantically JSON but its shape is not guaranteed: the
// model sometimes emits an array of string-encoded records instead of
// nested objects.
func (e *StoryExtractor) Extract(content string) (string, error) {
	prompt := fmt.Sprintf("Page content:\n%s", content)

	response, err := e.agent.Chat(prompt, &agents.ChatOptions{
		SystemPrompt: e.instruction,
		Schema:       e.schema,
		MaxTokens:    e.maxTokens,
		Temperature:  e.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("extraction agent chat: %w", err)
	}

	return response.Text, nil
}
