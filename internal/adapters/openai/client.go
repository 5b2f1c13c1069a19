package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tripweaver/internal/adapters/observability"
)

// Client calls an OpenAI-compatible chat completions endpoint. The
// returned text is handed to the parse cascade untouched; no JSON
// validity is assumed here.
type Client struct {
	base  string
	key   string
	model string
	hc    *http.Client
}

func New(base, key, model string) *Client {
	if base == "" {
		base = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		key:   key,
		model: model,
		hc:    &http.Client{Timeout: 90 * time.Second},
	}
}

const systemPrompt = "You are a precise travel-itinerary engine. You respond with a single JSON object and nothing else."

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.7,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		text, retryIn, err := c.once(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if retryIn < 0 {
			return "", err
		}
		if retryIn == 0 {
			retryIn = time.Duration(1<<attempt) * 500 * time.Millisecond
		}
		t := time.NewTimer(retryIn)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
	return "", lastErr
}

// once runs one attempt. retryIn < 0 means the failure is permanent;
// 0 means retry with default backoff; > 0 honors Retry-After.
func (c *Client) once(ctx context.Context, body []byte) (string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", -1, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("openai", "chat_completions", 0, time.Since(start))
		if ctx.Err() != nil {
			return "", -1, ctx.Err()
		}
		return "", 0, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("openai", "chat_completions", resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
		var out chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", -1, err
		}
		if out.Error != nil {
			return "", -1, errors.New(out.Error.Message)
		}
		if len(out.Choices) == 0 {
			return "", -1, errors.New("model returned no choices")
		}
		text := strings.TrimSpace(out.Choices[0].Message.Content)
		if text == "" {
			return "", -1, errors.New("model returned an empty message")
		}
		return text, 0, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		wait := time.Duration(0)
		if h := resp.Header.Get("Retry-After"); h != "" {
			if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
				wait = time.Duration(secs) * time.Second
			}
		}
		io.Copy(io.Discard, resp.Body)
		return "", wait, fmt.Errorf("model endpoint %d", resp.StatusCode)

	default:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var payload struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error.Message != "" {
			return "", -1, errors.New(payload.Error.Message)
		}
		return "", -1, fmt.Errorf("model endpoint error: %s", resp.Status)
	}
}
