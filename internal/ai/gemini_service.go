package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"github.com/dujoseaugusto/land-data-scraper/internal/repository"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrEmptyResponse is returned when the model produced no text
var ErrEmptyResponse = errors.New("empty response from Gemini")

// GeminiAnalyst drafts the narrative of a price projection
type GeminiAnalyst struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *logger.Logger
}

// NewGeminiAnalyst connects to Gemini with apiKey using the named model
func NewGeminiAnalyst(ctx context.Context, apiKey, modelName string) (*GeminiAnalyst, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.SetTopK(1)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(512)

	return &GeminiAnalyst{
		client: client,
		model:  model,
		logger: logger.NewLogger("gemini_analyst"),
	}, nil
}

// DraftProjectionAnalysis asks the model to justify a projected increase for
// the property using its address, zoning and land-cost history.
func (a *GeminiAnalyst) DraftProjectionAnalysis(ctx context.Context, property repository.PropertyRecord, increasePercentage float64) (string, error) {
	prompt := buildProjectionPrompt(property, increasePercentage)

	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate projection analysis: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	a.logger.WithFields(map[string]interface{}{
		"address_id": property.ID,
		"length":     len(text),
	}).Debug("Projection analysis drafted")
	return text, nil
}

func (a *GeminiAnalyst) Close() error {
	return a.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func buildProjectionPrompt(property repository.PropertyRecord, increasePercentage float64) string {
	var b strings.Builder

	b.WriteString("You are a real-estate analyst for the Indian market. ")
	b.WriteString("In at most 120 words, explain whether a projected land value increase is plausible for the property below. ")
	b.WriteString("Answer in plain text without headings.\n\n")

	fmt.Fprintf(&b, "Address: %s, %s, %s\n", property.Street, property.City, property.State)
	fmt.Fprintf(&b, "Projected increase: %.2f%%\n", increasePercentage)

	if property.Zoning != nil {
		fmt.Fprintf(&b, "Zone: %s", property.Zoning.ZoneName)
		if property.Zoning.PermittedLandUses != nil {
			fmt.Fprintf(&b, " (permitted uses: %s)", *property.Zoning.PermittedLandUses)
		}
		b.WriteString("\n")
	}

	if len(property.LandCosts) == 0 {
		b.WriteString("Land cost history: none recorded\n")
	} else {
		b.WriteString("Land cost history (INR per sqft):\n")
		for _, cost := range property.LandCosts {
			fmt.Fprintf(&b, "- %s: %.0f (%s)\n", cost.DateOfEstimation, cost.EstimatedCostPerSqft, cost.DataSource)
		}
	}

	for _, r := range property.Restrictions {
		fmt.Fprintf(&b, "Restriction: %s = %s\n", r.RestrictionType, r.RestrictionValue)
	}

	return b.String()
}
