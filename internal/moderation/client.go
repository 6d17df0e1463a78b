package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Verdict is the raw classifier output, parsed from the model's JSON
// response before any filtering.
type Verdict struct {
	// Violations are the breaches the classifier identified.
	Violations []VerdictViolation `json:"violations"`

	// Summary is the classifier's one-line assessment.
	Summary string `json:"summary"`

	// Suggestions are remediation hints.
	Suggestions []string `json:"suggestions,omitempty"`
}

// VerdictViolation is one breach in a raw verdict.
type VerdictViolation struct {
	Type       string  `json:"type"`
	Excerpt    string  `json:"excerpt"`
	Confidence float64 `json:"confidence"`
}

// Classifier is the remote content-policy classifier.
type Classifier interface {
	// Moderate submits page text and returns the raw verdict.
	Moderate(ctx context.Context, text string) (*Verdict, error)
}

// moderationPrompt frames the classification request. The response MIME
// type is additionally pinned to JSON so the model cannot reply in prose.
const moderationPrompt = `You are an advertising policy reviewer. Analyze the following website text for policy violations.

Report violations only in these categories:
- "misleading_content": scams, deceptive claims, fake promises
- "copyright_infringement": unauthorized distribution of copyrighted media
- "missing_affiliate_disclosure": monetized recommendations without disclosure
- "excessive_ads": content overwhelmed by advertising
- "prohibited_content": gambling, adult content, weapons, counterfeit goods, academic fraud, or other content unsuitable for advertising

Respond with a single JSON object:
{"violations": [{"type": "...", "excerpt": "...", "confidence": 0.0}], "summary": "...", "suggestions": ["..."]}

Use an empty violations array for compliant content. Confidence is your certainty in [0,1].

Website text:
`

// GeminiClassifier implements Classifier on the Gemini API.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier creates a classifier backed by the named Gemini
// model.
func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClassifier{
		client: client,
		model:  model,
	}, nil
}

// Moderate submits the text and parses the JSON verdict.
func (c *GeminiClassifier) Moderate(ctx context.Context, text string) (*Verdict, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(moderationPrompt+text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	raw, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(cleanJSONBlock(raw)), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse verdict: %w", err)
	}
	return &verdict, nil
}

// Close releases resources held by the classifier.
func (c *GeminiClassifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
