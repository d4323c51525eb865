// Package ai defines the provider-neutral contract for the text-generation
// service that extracts and classifies skills.
package ai

import "context"

// Proposal is one classification result for a skill. A skill spanning
// several domains yields several proposals.
type Proposal struct {
	Category      string `json:"category" mapstructure:"category"`
	Subcategory   string `json:"subcategory" mapstructure:"subcategory"`
	Justification string `json:"justification" mapstructure:"justification"`
}

// Extractor turns a free-text description into discrete skill strings.
type Extractor interface {
	ExtractSkills(ctx context.Context, description string) ([]string, error)
}

// Classifier places one skill into the category/subcategory taxonomy.
type Classifier interface {
	ClassifySkill(ctx context.Context, skill string) ([]Proposal, error)
}
