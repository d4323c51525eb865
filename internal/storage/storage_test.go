package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileKeepsDefault(t *testing.T) {
	doc := NewDocument(filepath.Join(t.TempDir(), "absent.json"))

	data := map[string][]string{"preset": {"value"}}
	if err := doc.Load(&data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data) != 1 || data["preset"][0] != "value" {
		t.Fatalf("expected default to survive, got %v", data)
	}
}

func TestLoadCorruptFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var data map[string][]string
	if err := NewDocument(path).Load(&data); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	doc := NewDocument(path)

	in := map[string]map[string][]string{
		"Engineering": {"Backend": {"entry"}},
	}
	if err := doc.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out map[string]map[string][]string
	if err := doc.Load(&out); err != nil {
		t.Fatalf("load: %v", err)
	}

	if out["Engineering"]["Backend"][0] != "entry" {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestSaveDoesNotEscapeHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	doc := NewDocument(path)

	if err := doc.Save(map[string]string{"skill": "C++ & <templates>"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(raw), "C++ & <templates>") {
		t.Fatalf("expected literal characters in output, got %s", raw)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	doc := NewDocument(filepath.Join(dir, "data.json"))

	if err := doc.Save([]string{"a"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 || entries[0].Name() != "data.json" {
		t.Fatalf("expected only data.json in dir, got %v", entries)
	}
}
