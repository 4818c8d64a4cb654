package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = openai.ChatModelGPT4_1Mini

// OpenAIModel talks to the chat completions API. With a base URL override it
// also serves OpenAI-compatible servers such as llama.cpp or vLLM.
type OpenAIModel struct {
	usageTracker
	client *openai.Client
	model  openai.ChatModel
}

func NewOpenAIModel(token, baseURL, model string) *OpenAIModel {
	opts := []option.RequestOption{option.WithAPIKey(token)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	// Retries are left to the caller.
	opts = append(opts, option.WithMaxRetries(0))

	client := openai.NewClient(opts...)

	chatModel := openai.ChatModel(model)
	if model == "" {
		chatModel = defaultOpenAIModel
	}
	return &OpenAIModel{client: &client, model: chatModel}
}

func (m *OpenAIModel) Name() string {
	return string(m.model)
}

func (m *OpenAIModel) Generate(ctx context.Context, prompt string, images []Image) (string, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
	}
	for _, img := range images {
		imageURL := "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    imageURL,
			Detail: "high",
		}))
	}

	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: m.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: parts,
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		m.trackUsage(int(resp.Usage.PromptTokens), int(resp.Usage.CompletionTokens))
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
