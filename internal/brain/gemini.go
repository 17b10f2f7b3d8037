package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider talks to the Google Gemini generateContent REST API.
type GeminiProvider struct {
	apiKey       string
	model        string
	systemPrompt string
	endpoint     string
	client       *http.Client
}

func NewGeminiProvider(apiKey, model, systemPrompt string, httpClient *http.Client) *GeminiProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &GeminiProvider{
		apiKey:       apiKey,
		model:        model,
		systemPrompt: systemPrompt,
		endpoint:     geminiEndpoint,
		client:       httpClient,
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Ask(ctx context.Context, prompt string, history []Turn) (string, error) {
	req := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: p.systemPrompt}},
		},
	}
	for _, t := range history {
		req.Contents = append(req.Contents,
			geminiContent{Role: "user", Parts: []geminiPart{{Text: t.Prompt}}},
			// Gemini uses "model" where OpenAI says "assistant".
			geminiContent{Role: "model", Parts: []geminiPart{{Text: t.Response}}},
		)
	}
	req.Contents = append(req.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: prompt}}})

	body, err := json.Marshal(req)
	if err != nil {
		return "", provErr(p.Name(), "marshal request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.endpoint, p.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", provErr(p.Name(), "create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// Key goes in the header, not the URL, to keep it out of logs.
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", provErr(p.Name(), "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", provErr(p.Name(), "execute request",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(msg)))
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", provErr(p.Name(), "decode response", err)
	}
	if len(out.Candidates) == 0 {
		return "", provErr(p.Name(), "decode response", fmt.Errorf("no candidates in response"))
	}

	var text string
	for _, part := range out.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", provErr(p.Name(), "decode response", fmt.Errorf("empty candidate content"))
	}
	return text, nil
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}
