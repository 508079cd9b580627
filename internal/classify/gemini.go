package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClassifier classifies descriptions with Gemini. It expects the
// model to return a STRICT JSON object {"category": ..., "place": ...}.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier creates a classifier using Application Default
// Credentials / GEMINI_API_KEY, targeting the given model.
func NewGeminiClassifier(ctx context.Context, model string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiClassifier: create genai client: %w", err)
	}
	return &GeminiClassifier{client: client, model: model}, nil
}

// Classify sends one description to the model and parses the structured
// answer. Any malformed response is a hard error.
func (g *GeminiClassifier) Classify(ctx context.Context, description string) (Result, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: classifyPrompt()},
				{Text: description},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return Result{}, fmt.Errorf("Classify: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return Result{}, fmt.Errorf("Classify: empty response from model")
	}

	// Clean up Markdown fences / extra text if the model ignored instructions.
	clean := cleanModelJSON(rawText)

	var parsed struct {
		Category string  `json:"category"`
		Place    *string `json:"place"`
	}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return Result{}, fmt.Errorf("Classify: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	category := Category(strings.TrimSpace(parsed.Category))
	if !category.Valid() {
		return Result{}, fmt.Errorf("Classify: category %q not in the allowed set", parsed.Category)
	}

	place := parsed.Place
	if place != nil {
		trimmed := strings.TrimSpace(*place)
		if trimmed == "" {
			place = nil
		} else {
			place = &trimmed
		}
	}

	return Result{Category: category, Place: place}, nil
}

// classifyPrompt builds the instruction block sent ahead of the description.
func classifyPrompt() string {
	var b strings.Builder

	b.WriteString("You are a highly accurate assistant tasked with categorizing bank transaction descriptions.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Identify the main category of the transaction.\n")
	b.WriteString("- If a place of transaction is mentioned, return the place, else null.\n")
	b.WriteString("- Always prioritize the first relevant term in the description; if multiple\n")
	b.WriteString("  categories apply, pick the one matching that term.\n")
	b.WriteString("- Recurring peer payments such as 'Zelle' or 'Venmo' are \"cash_transfer\".\n")
	b.WriteString("- If the category is unclear, infer from common transaction patterns; use \"other\" only when unsure.\n\n")

	b.WriteString("Category must be EXACTLY one of:\n")
	for _, c := range Categories() {
		b.WriteString("- " + string(c) + "\n")
	}

	b.WriteString("\nOutput STRICT JSON only (no comments, no extra text):\n")
	b.WriteString("{\"category\": \"<category>\", \"place\": \"<place or null>\"}\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Do NOT use ```json or any Markdown.\n")
	b.WriteString("Output must begin with \"{\" and end with \"}\".\n")

	return b.String()
}

// cleanModelJSON strips Markdown fences and surrounding junk, keeping the
// first '{' to the last '}'.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
