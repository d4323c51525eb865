package gemini

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mpawlak/skillatlas/internal/ai"
)

func TestClassifySkill(t *testing.T) {
	stub := &stubGenerator{response: `[
		{"category": "Engineering", "subcategory": "Backend", "justification": "server-side language"}
	]`}
	classifier := NewClassifier(stub, 0, zap.NewNop())

	proposals, err := classifier.ClassifySkill(context.Background(), "Python")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := ai.Proposal{Category: "Engineering", Subcategory: "Backend", Justification: "server-side language"}
	if len(proposals) != 1 || proposals[0] != want {
		t.Fatalf("unexpected proposals: %+v", proposals)
	}

	if !strings.Contains(stub.lastPrompt, "Skill: Python") {
		t.Fatalf("skill missing from prompt: %s", stub.lastPrompt)
	}
}

func TestClassifySkillWrapsSingleObject(t *testing.T) {
	stub := &stubGenerator{response: `{"category": "Engineering", "subcategory": "Backend", "justification": "x"}`}
	classifier := NewClassifier(stub, 0, zap.NewNop())

	proposals, err := classifier.ClassifySkill(context.Background(), "Python")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(proposals) != 1 || proposals[0].Category != "Engineering" {
		t.Fatalf("unexpected proposals: %+v", proposals)
	}
}

func TestClassifySkillMultipleProposals(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `[
		{"category": "Data Science", "subcategory": "NLP", "justification": "a"},
		{"category": "Engineering", "subcategory": "Machine Learning", "justification": "b"}
	]` + "\n```"}
	classifier := NewClassifier(stub, 0, zap.NewNop())

	proposals, err := classifier.ClassifySkill(context.Background(), "NLP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(proposals) != 2 {
		t.Fatalf("expected two proposals, got %+v", proposals)
	}
	if proposals[1].Subcategory != "Machine Learning" {
		t.Fatalf("unexpected second proposal: %+v", proposals[1])
	}
}

func TestClassifySkillRecoversLooseShapes(t *testing.T) {
	// Extra keys and a numeric justification still decode field by field.
	stub := &stubGenerator{response: `{"category": "Engineering", "subcategory": "Backend", "justification": 42, "confidence": 0.9}`}
	classifier := NewClassifier(stub, 0, zap.NewNop())

	proposals, err := classifier.ClassifySkill(context.Background(), "Python")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if proposals[0].Justification != "42" {
		t.Fatalf("expected weakly typed justification, got %+v", proposals[0])
	}
}

func TestClassifySkillRejectsUnusableObject(t *testing.T) {
	stub := &stubGenerator{response: `{"justification": "no placement at all"}`}
	classifier := NewClassifier(stub, 0, zap.NewNop())

	if _, err := classifier.ClassifySkill(context.Background(), "Python"); err == nil {
		t.Fatal("expected error for proposal without category or subcategory")
	}
}

func TestClassifySkillMalformedResponse(t *testing.T) {
	stub := &stubGenerator{response: "it depends"}
	classifier := NewClassifier(stub, 0, zap.NewNop())

	_, err := classifier.ClassifySkill(context.Background(), "Python")
	if err == nil {
		t.Fatal("expected parse error")
	}

	if !strings.Contains(err.Error(), `classification for skill "Python"`) {
		t.Fatalf("error should name the skill: %v", err)
	}
}
