package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/factmap/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxParseAttempts bounds retries when the model returns malformed JSON.
const maxParseAttempts = 3

// EntityExtractor implements ai.EntityExtractor with a chat model in JSON mode.
type EntityExtractor struct {
	client        llms.Model
	minImportance int
	logger        *slog.Logger
}

var _ ai.EntityExtractor = (*EntityExtractor)(nil)

type entity struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Importance int    `json:"importance"`
}

type analysis struct {
	Targets []entity `json:"targets"`
}

func newEntityExtractor(config *ai.Config) (*EntityExtractor, error) {
	if err := config.ValidateExtractor(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &EntityExtractor{
		client:        client,
		minImportance: config.MinImportance,
		logger:        slog.Default().With("component", "openai-extractor", "model", config.ExtractorModel),
	}, nil
}

// NewEntityExtractor creates an extractor from the extractor settings of config.
func NewEntityExtractor(config *ai.Config) (ai.EntityExtractor, error) {
	return newEntityExtractor(config)
}

// ExtractEntities returns the targets of an article with importance at or
// above the configured minimum, most important first.
func (e *EntityExtractor) ExtractEntities(ctx context.Context, text string) ([]ai.ExtractedEntity, error) {
	text = prepareArticle(text)
	if text == "" {
		return []ai.ExtractedEntity{}, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt())},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	var result analysis
	var lastErr error
	for attempt := range maxParseAttempts {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []ai.ExtractedEntity{}, nil
		}

		responseText := stripCodeFence(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, fmt.Errorf("parse extractor response after %d attempts: %w", maxParseAttempts, lastErr)
	}

	return e.filter(result.Targets), nil
}

// filter drops low-importance and duplicate entities and sorts the rest by
// importance, keeping the model's order for equal scores.
func (e *EntityExtractor) filter(targets []entity) []ai.ExtractedEntity {
	seen := make(map[string]bool, len(targets))
	extracted := make([]ai.ExtractedEntity, 0, len(targets))
	for _, t := range targets {
		name := strings.TrimSpace(t.Name)
		// Entries are later joined on ';', so a name may not contain one.
		name = strings.ReplaceAll(name, ";", ",")
		key := strings.ToLower(name)
		if name == "" || t.Importance < e.minImportance || seen[key] {
			continue
		}
		seen[key] = true
		extracted = append(extracted, ai.ExtractedEntity{
			Name:       name,
			Type:       strings.ReplaceAll(strings.TrimSpace(t.Type), " ", "_"),
			Importance: t.Importance,
		})
	}

	slices.SortStableFunc(extracted, func(a, b ai.ExtractedEntity) int {
		return b.Importance - a.Importance
	})

	e.logger.Debug("extracted entities", "total", len(targets), "filtered", len(extracted))
	return extracted
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
