package brain

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider talks to the OpenAI chat completions API.
type OpenAIProvider struct {
	client       openai.Client
	model        string
	systemPrompt string
}

// NewOpenAIProvider builds the client. httpClient may be nil; pass one
// to route traffic through a SOCKS proxy.
func NewOpenAIProvider(apiKey, model, systemPrompt string, httpClient *http.Client) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAIProvider{
		client:       openai.NewClient(opts...),
		model:        model,
		systemPrompt: systemPrompt,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Ask(ctx context.Context, prompt string, history []Turn) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2*len(history)+2)
	msgs = append(msgs, openai.SystemMessage(p.systemPrompt))
	for _, t := range history {
		msgs = append(msgs, openai.UserMessage(t.Prompt))
		msgs = append(msgs, openai.AssistantMessage(t.Response))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    openai.ChatModel(p.model),
	})
	if err != nil {
		return "", provErr(p.Name(), "chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", provErr(p.Name(), "chat completion", fmt.Errorf("no choices in response"))
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", provErr(p.Name(), "chat completion", fmt.Errorf("empty message content"))
	}
	return content, nil
}
