// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package execute

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// OpenAIInvoker calls the OpenAI chat completion API.
type OpenAIInvoker struct {
	client *openai.Client
}

// NewOpenAIInvoker builds an invoker authenticated with the given key.
func NewOpenAIInvoker(apiKey string) *OpenAIInvoker {
	return &OpenAIInvoker{client: openai.NewClient(apiKey)}
}

// Invoke sends the prompt as a single user message using the model's
// configured parameters.
func (o *OpenAIInvoker) Invoke(ctx context.Context, model types.ModelDescriptor, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model.Name,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if model.Parameters.Temperature > 0 {
		req.Temperature = model.Parameters.Temperature
	}
	if model.Parameters.MaxTokens > 0 {
		req.MaxCompletionTokens = model.Parameters.MaxTokens
	}
	if model.Parameters.TopP > 0 {
		req.TopP = model.Parameters.TopP
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
