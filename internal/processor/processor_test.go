package processor

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mpawlak/skillatlas/internal/ai"
	"github.com/mpawlak/skillatlas/internal/assignment"
	"github.com/mpawlak/skillatlas/internal/profile"
	"github.com/mpawlak/skillatlas/internal/storage"
	"github.com/mpawlak/skillatlas/internal/taxonomy"
)

type stubExtractor struct {
	skills []string
	err    error
}

func (s *stubExtractor) ExtractSkills(context.Context, string) ([]string, error) {
	return s.skills, s.err
}

type stubClassifier struct {
	proposals map[string][]ai.Proposal
	errs      map[string]error
}

func (s *stubClassifier) ClassifySkill(_ context.Context, skill string) ([]ai.Proposal, error) {
	if err := s.errs[skill]; err != nil {
		return nil, err
	}
	return s.proposals[skill], nil
}

func newStores(t *testing.T) (*taxonomy.Store, *assignment.Index) {
	t.Helper()
	dir := t.TempDir()
	tax := taxonomy.Open(storage.NewDocument(filepath.Join(dir, "categories.json")), taxonomy.DefaultThreshold, zap.NewNop())
	index := assignment.Open(storage.NewDocument(filepath.Join(dir, "assignment.json")), zap.NewNop())
	return tax, index
}

var ann = profile.Profile{Name: "Ann", Surname: "Lee", Description: "trains models all day"}

func TestProcessSingleProfileScenario(t *testing.T) {
	tax, index := newStores(t)
	extractor := &stubExtractor{skills: []string{"Python"}}
	classifier := &stubClassifier{proposals: map[string][]ai.Proposal{
		"Python": {{Category: "Engineering", Subcategory: "Backend", Justification: "general purpose language"}},
	}}

	p := New(extractor, classifier, tax, index, zap.NewNop())
	report := p.Process(context.Background(), []profile.Profile{ann})

	if got := tax.Document().Categories(); !reflect.DeepEqual(got, []string{"Engineering"}) {
		t.Fatalf("unexpected taxonomy: %v", got)
	}
	if got := tax.Document().Subcategories("Engineering"); !reflect.DeepEqual(got, []string{"Backend"}) {
		t.Fatalf("unexpected subcategories: %v", got)
	}

	entries := index.Entries("Engineering", "Backend")
	if len(entries) != 1 {
		t.Fatalf("expected one assignment entry, got %d", len(entries))
	}
	want := assignment.Entry{Name: "Ann", Surname: "Lee", Skill: "Python", Description: "trains models all day"}
	if entries[0] != want {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}

	if report[0] != "Processing profile: Ann Lee" {
		t.Fatalf("unexpected first report line: %s", report[0])
	}
	if report[len(report)-1] != "-----" {
		t.Fatalf("expected separator as last line, got %s", report[len(report)-1])
	}
}

func TestProcessMultiCategoryFanOut(t *testing.T) {
	tax, index := newStores(t)
	extractor := &stubExtractor{skills: []string{"NLP"}}
	classifier := &stubClassifier{proposals: map[string][]ai.Proposal{
		"NLP": {
			{Category: "Data Science", Subcategory: "NLP"},
			{Category: "Engineering", Subcategory: "Machine Learning"},
		},
	}}

	p := New(extractor, classifier, tax, index, zap.NewNop())
	p.Process(context.Background(), []profile.Profile{ann})

	if tax.Document().Len() != 2 {
		t.Fatalf("expected two categories, got %v", tax.Document().Categories())
	}
	if len(index.Entries("Data Science", "NLP")) != 1 {
		t.Fatal("missing entry under first proposal")
	}
	if len(index.Entries("Engineering", "Machine Learning")) != 1 {
		t.Fatal("missing entry under second proposal")
	}
}

func TestProcessExtractionFailureDegradesToEmpty(t *testing.T) {
	tax, index := newStores(t)
	extractor := &stubExtractor{err: errors.New("parse skills response: invalid json")}
	classifier := &stubClassifier{}

	p := New(extractor, classifier, tax, index, zap.NewNop())
	report := p.Process(context.Background(), []profile.Profile{ann})

	if tax.Document().Len() != 0 || len(index.Data()) != 0 {
		t.Fatal("extraction failure must not alter the stores")
	}

	var logged bool
	for _, line := range report {
		if strings.HasPrefix(line, "Error parsing skills:") {
			logged = true
		}
	}
	if !logged {
		t.Fatalf("expected parse failure in report, got %v", report)
	}

	if report[len(report)-1] != "-----" {
		t.Fatal("profile must still close with a separator")
	}
}

func TestProcessClassificationFailureSkipsSkillOnly(t *testing.T) {
	tax, index := newStores(t)
	extractor := &stubExtractor{skills: []string{"Python", "Go"}}
	classifier := &stubClassifier{
		proposals: map[string][]ai.Proposal{
			"Go": {{Category: "Engineering", Subcategory: "Backend"}},
		},
		errs: map[string]error{
			"Python": errors.New("parse response: not json"),
		},
	}

	p := New(extractor, classifier, tax, index, zap.NewNop())
	report := p.Process(context.Background(), []profile.Profile{ann})

	// The failed skill contributes nothing; the next one still lands.
	if len(index.Entries("Engineering", "Backend")) != 1 {
		t.Fatal("expected the second skill to be processed")
	}

	var logged bool
	for _, line := range report {
		if strings.HasPrefix(line, "Error parsing assignment for skill 'Python':") {
			logged = true
		}
	}
	if !logged {
		t.Fatalf("expected classification failure in report, got %v", report)
	}
}

func TestProcessMultipleProfilesInOrder(t *testing.T) {
	tax, index := newStores(t)
	extractor := &stubExtractor{skills: []string{"Python"}}
	classifier := &stubClassifier{proposals: map[string][]ai.Proposal{
		"Python": {{Category: "Engineering", Subcategory: "Backend"}},
	}}

	bob := profile.Profile{Name: "Bob", Surname: "Kim", Description: "also codes"}

	p := New(extractor, classifier, tax, index, zap.NewNop())
	report := p.Process(context.Background(), []profile.Profile{ann, bob})

	if report[0] != "Processing profile: Ann Lee" {
		t.Fatalf("unexpected first line: %s", report[0])
	}

	var bobAt int
	for i, line := range report {
		if line == "Processing profile: Bob Kim" {
			bobAt = i
		}
	}
	if bobAt == 0 {
		t.Fatalf("second profile missing from report: %v", report)
	}

	if len(index.Entries("Engineering", "Backend")) != 2 {
		t.Fatalf("expected entries for both profiles, got %d", len(index.Entries("Engineering", "Backend")))
	}
}
