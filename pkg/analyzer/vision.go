package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// visionPrompt instructs the model to return strict JSON describing
// the photographed item. The title limit matches eBay's 80-character
// cap with one spare.
const visionPrompt = `You are an expert eBay cataloger. Analyze these product photos and return strict JSON with keys:
{"title": "<=79 chars, SEO-rich",
"category_guess": "noun like shirt, panties, hat, hoodie",
"brand": "visible brand or likely maker",
"color": "dominant color or palette",
"material": "fabric/content if visible",
"size": "tag or best guess",
"year_or_style": "era or decade (e.g. 90s, Y2K)",
"short_description": "2-3 factual sentences, no condition"}`

// ErrNoDescription indicates the model returned no usable JSON object.
var ErrNoDescription = errors.New("no description in model response")

// Description is the structured item description produced by the
// vision model.
type Description struct {
	Title            string `json:"title"`
	CategoryGuess    string `json:"category_guess"`
	Brand            string `json:"brand"`
	Color            string `json:"color"`
	Material         string `json:"material"`
	Size             string `json:"size"`
	YearOrStyle      string `json:"year_or_style"`
	ShortDescription string `json:"short_description"`
}

// Describer produces an item description from public photo URLs
type Describer interface {
	Describe(ctx context.Context, photoURLs []string) (*Description, error)
}

// VisionConfig configures the OpenAI-compatible vision client
type VisionConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// VisionClient calls an OpenAI-compatible chat completions endpoint
// with image URLs attached.
type VisionClient struct {
	cfg    VisionConfig
	client *http.Client
}

// NewVisionClient creates a vision client. Zero-value config fields
// get defaults suitable for the hosted OpenAI API.
func NewVisionClient(cfg VisionConfig, client *http.Client) *VisionClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &VisionClient{cfg: cfg, client: client}
}

type chatContent struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Describe sends the photo URLs to the model and parses the JSON
// object from its reply.
func (v *VisionClient) Describe(ctx context.Context, photoURLs []string) (*Description, error) {
	if len(photoURLs) == 0 {
		return nil, fmt.Errorf("%w: no photo urls", ErrNoDescription)
	}

	contents := []chatContent{{Type: "text", Text: visionPrompt}}
	for _, u := range photoURLs {
		contents = append(contents, chatContent{Type: "image_url", ImageURL: &chatImageURL{URL: u}})
	}

	body, err := json.Marshal(chatRequest{
		Model:       v.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: contents}},
		Temperature: v.cfg.Temperature,
		MaxTokens:   v.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(v.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.cfg.APIKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("vision request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode vision response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, ErrNoDescription
	}

	desc, err := extractDescription(parsed.Choices[0].Message.Content)
	if err != nil {
		slog.Warn("Vision reply had no parseable JSON", "error", err)
		return nil, err
	}
	return desc, nil
}

// extractDescription pulls the first JSON object out of a model reply,
// tolerating markdown code fences around it.
func extractDescription(raw string) (*Description, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.Trim(raw, "`")
		raw = strings.TrimPrefix(raw, "json")
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoDescription
	}

	var desc Description
	if err := json.Unmarshal([]byte(raw[start:end+1]), &desc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDescription, err)
	}
	return &desc, nil
}
