package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/mpawlak/skillatlas/internal/logger"
)

//go:embed extract_prompt.md
var extractPromptTemplate string

const defaultMaxLogLength = 200

// contentGenerator is the narrow view of Generator the extractor and
// classifier need.
type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Extractor asks Gemini for the list of skills named in a description.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(generator contentGenerator, maxLogLength int, log *zap.Logger) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// ExtractSkills returns the skills Gemini finds in the description. The
// response must be a JSON list of strings; a bare JSON value is tolerated by
// wrapping it into a single-element list. Anything else is a parse error for
// the caller to downgrade.
func (e *Extractor) ExtractSkills(ctx context.Context, description string) ([]string, error) {
	prompt := strings.ReplaceAll(extractPromptTemplate, "{{DESCRIPTION}}", description)

	e.logger.Debug("gemini skill extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini skill extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseSkills(raw)
}

func parseSkills(raw string) ([]string, error) {
	cleaned := extractJSON(raw)

	var items []any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		// Not a list; a single well-formed JSON value still counts as one skill.
		var single any
		if err2 := json.Unmarshal([]byte(cleaned), &single); err2 != nil {
			return nil, fmt.Errorf("parse skills response: %w", err)
		}
		items = []any{single}
	}

	skills := make([]string, 0, len(items))
	for _, item := range items {
		skill := coerceString(item)
		if skill != "" {
			skills = append(skills, skill)
		}
	}

	return skills, nil
}
