package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Document is one durable JSON file holding a whole collection. Every save
// rewrites the file; there is no partial update.
type Document struct {
	path string
}

func NewDocument(path string) *Document {
	return &Document{path: path}
}

func (d *Document) Path() string {
	return d.path
}

// Load decodes the file into v. A missing file leaves v untouched so callers
// start from their empty default. A corrupt file is reported as an error;
// callers are expected to log it and continue with the default as well.
func (d *Document) Load(v any) error {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", d.path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", d.path, err)
	}

	return nil
}

// Save writes v as indented JSON. The write goes to a temporary file in the
// same directory first and is moved into place with a rename, so a crash
// mid-write cannot leave a truncated document behind.
func (d *Document) Save(v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", d.path, err)
	}

	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), d.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", d.path, err)
	}

	return nil
}
