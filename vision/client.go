// Package vision talks to the external multimodal inference gateway that
// scores photo similarity, and turns its free-text answers into confidence
// scores.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	defaultGatewayURL = "https://ai.gateway.lovable.dev/v1/chat/completions"
	defaultModel      = "google/gemini-2.5-flash"

	// requestTimeout bounds each comparison call; the gateway is the primary
	// availability risk, so a hung call must not hold a handler open.
	requestTimeout = 10 * time.Second
)

// comparePrompt asks for a bare integer so the response parses without any
// schema guarantees from the gateway.
const comparePrompt = "Compare these two images and determine if they show the same person. " +
	"Consider facial features, age, and any distinguishing characteristics. " +
	"Return a confidence score from 0 to 100. Only return the number."

// Comparer scores the similarity of the people shown in two images as an
// integer confidence from 0 to 100.
type Comparer interface {
	Compare(ctx context.Context, imageURL, photoURL string) (int, error)
}

// Client implements Comparer against an OpenAI-compatible chat completions
// endpoint.
type Client struct {
	gatewayURL string
	apiKey     string
	model      string
	httpClient *http.Client
}

// New builds a Client from the AI_GATEWAY_URL, AI_API_KEY and AI_MODEL
// environment variables, falling back to the hosted gateway defaults.
func New() *Client {
	gatewayURL := os.Getenv("AI_GATEWAY_URL")
	if gatewayURL == "" {
		gatewayURL = defaultGatewayURL
	}
	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = defaultModel
	}
	return &Client{
		gatewayURL: gatewayURL,
		apiKey:     os.Getenv("AI_API_KEY"),
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Compare sends one comparison request for the two image URLs and returns the
// parsed confidence. Transport and gateway failures are errors; a response
// that does not contain a number is a confidence of zero.
func (c *Client) Compare(ctx context.Context, queryImageURL, casePhotoURL string) (int, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: comparePrompt},
					{Type: "image_url", ImageURL: &imageURL{URL: queryImageURL}},
					{Type: "image_url", ImageURL: &imageURL{URL: casePhotoURL}},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("inference gateway returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, err
	}
	if len(parsed.Choices) == 0 {
		return 0, fmt.Errorf("inference gateway returned no choices")
	}

	return ParseConfidence(parsed.Choices[0].Message.Content), nil
}

// ParseConfidence extracts the leading integer from the model's reply. A
// reply with no leading number counts as zero confidence rather than an
// error, so one odd response never fails a whole batch.
func ParseConfidence(content string) int {
	content = strings.TrimSpace(content)
	end := 0
	for end < len(content) && unicode.IsDigit(rune(content[end])) {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(content[:end])
	if err != nil {
		return 0
	}
	return n
}
