package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/mpawlak/skillatlas/internal/ai"
	"github.com/mpawlak/skillatlas/internal/logger"
)

//go:embed classify_prompt.md
var classifyPromptTemplate string

// Classifier asks Gemini to place one skill into the taxonomy.
type Classifier struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewClassifier(generator contentGenerator, maxLogLength int, log *zap.Logger) *Classifier {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Classifier{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// ClassifySkill returns one or more category/subcategory proposals for the
// skill. The response is expected as a JSON list of proposal objects; a
// single object is tolerated by wrapping it. Loosely-shaped objects are
// recovered field by field before giving up.
func (c *Classifier) ClassifySkill(ctx context.Context, skill string) ([]ai.Proposal, error) {
	prompt := strings.ReplaceAll(classifyPromptTemplate, "{{SKILL}}", skill)

	c.logger.Debug("gemini classification request",
		zap.String("skill", skill),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini classification response",
		zap.String("skill", skill),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, c.maxLogLen)),
	)

	proposals, err := parseProposals(raw)
	if err != nil {
		return nil, fmt.Errorf("classification for skill %q: %w", skill, err)
	}

	return proposals, nil
}

func parseProposals(raw string) ([]ai.Proposal, error) {
	cleaned := extractJSON(raw)

	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		var single map[string]any
		if err2 := json.Unmarshal([]byte(cleaned), &single); err2 != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		items = []map[string]any{single}
	}

	proposals := make([]ai.Proposal, 0, len(items))
	for _, item := range items {
		proposal, err := decodeProposal(item)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}

	return proposals, nil
}

// decodeProposal does a best-effort field-by-field decode so objects with
// extra keys or non-string values still yield a usable proposal.
func decodeProposal(item map[string]any) (ai.Proposal, error) {
	var proposal ai.Proposal

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &proposal,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return proposal, fmt.Errorf("build proposal decoder: %w", err)
	}

	if err := decoder.Decode(item); err != nil {
		return proposal, fmt.Errorf("decode proposal: %w", err)
	}

	if strings.TrimSpace(proposal.Category) == "" && strings.TrimSpace(proposal.Subcategory) == "" {
		return proposal, errors.New("proposal carries no category or subcategory")
	}

	return proposal, nil
}
