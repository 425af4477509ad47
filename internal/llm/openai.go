package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"
)

// OpenAIClient calls an OpenAI-compatible Chat Completions endpoint.
type OpenAIClient struct {
	http  *resty.Client
	model string
}

// NewOpenAIClient creates a client rooted at baseURL, e.g.
// "https://api.openai.com/v1". An empty apiKey sends no Authorization header,
// which local OpenAI-compatible servers accept.
func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration, logger hclog.Logger) *OpenAIClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	if logger != nil {
		c.SetLogger(restyLogger{logger})
	}
	return &OpenAIClient{http: c, model: model}
}

func (o *OpenAIClient) Name() string { return "OpenAI:" + o.model }
func (o *OpenAIClient) Close() error { return nil }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (o *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}
	body := chatRequest{Model: model, Temperature: req.Temperature}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.User})

	var out chatResponse
	var apiErr chatError
	resp, err := o.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return "", &APIError{Provider: "openai", StatusCode: resp.StatusCode(), Message: msg}
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return out.Choices[0].Message.Content, nil
}

// restyLogger forwards resty's printf-style logging to hclog.
type restyLogger struct{ l hclog.Logger }

func (a restyLogger) Errorf(format string, v ...interface{}) { a.l.Error(fmt.Sprintf(format, v...)) }
func (a restyLogger) Warnf(format string, v ...interface{})  { a.l.Warn(fmt.Sprintf(format, v...)) }
func (a restyLogger) Debugf(format string, v ...interface{}) { a.l.Debug(fmt.Sprintf(format, v...)) }
