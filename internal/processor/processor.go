// Package processor drives profiles through skill extraction and
// classification and folds every result into the taxonomy and the
// assignment index.
package processor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mpawlak/skillatlas/internal/ai"
	"github.com/mpawlak/skillatlas/internal/assignment"
	"github.com/mpawlak/skillatlas/internal/profile"
	"github.com/mpawlak/skillatlas/internal/taxonomy"
)

const separator = "-----"

type Processor struct {
	extractor   ai.Extractor
	classifier  ai.Classifier
	taxonomy    *taxonomy.Store
	assignments *assignment.Index
	logger      *zap.Logger
}

func New(extractor ai.Extractor, classifier ai.Classifier, tax *taxonomy.Store, assignments *assignment.Index, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Processor{
		extractor:   extractor,
		classifier:  classifier,
		taxonomy:    tax,
		assignments: assignments,
		logger:      logger,
	}
}

// Process runs every profile, in order, through extraction, classification
// and the store updates, and returns the ordered human-readable report of
// every step. Gateway failures degrade to empty results plus a report line;
// nothing aborts the batch and no error reaches the caller.
func (p *Processor) Process(ctx context.Context, profiles []profile.Profile) []string {
	report := make([]string, 0, len(profiles)*4)
	for _, prof := range profiles {
		report = p.processProfile(ctx, prof, report)
	}
	return report
}

func (p *Processor) processProfile(ctx context.Context, prof profile.Profile, report []string) []string {
	report = p.step(report, fmt.Sprintf("Processing profile: %s %s", prof.Name, prof.Surname))

	skills, err := p.extractor.ExtractSkills(ctx, prof.Description)
	if err != nil {
		report = p.step(report, fmt.Sprintf("Error parsing skills: %v", err))
		skills = nil
	}

	report = p.step(report, fmt.Sprintf("Extracted skills: %v", skills))

	for _, skill := range skills {
		proposals, err := p.classifier.ClassifySkill(ctx, skill)
		if err != nil {
			report = p.step(report, fmt.Sprintf("Error parsing assignment for skill '%s': %v", skill, err))
			continue
		}

		report = p.step(report, fmt.Sprintf("Assignment results for '%s': %v", skill, proposals))

		for _, proposal := range proposals {
			p.taxonomy.Merge(proposal.Category, proposal.Subcategory)
			p.assignments.Append(proposal.Category, proposal.Subcategory, prof, skill)
		}
	}

	return p.step(report, separator)
}

// step records one report line and mirrors it to the logger.
func (p *Processor) step(report []string, line string) []string {
	p.logger.Info(line)
	return append(report, line)
}
