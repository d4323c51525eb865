package taxonomy

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the persisted taxonomy: category names mapped to their
// subcategory lists. Insertion order of categories is preserved, including
// across save/load, because the fuzzy merge scans candidates in that order
// and the first acceptable match wins.
type Document struct {
	names []string
	subs  map[string][]string
}

func NewDocument() *Document {
	return &Document{subs: make(map[string][]string)}
}

// Categories returns the category names in insertion order.
func (d *Document) Categories() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Subcategories returns the subcategory names stored under the category.
func (d *Document) Subcategories(category string) []string {
	subs, ok := d.subs[category]
	if !ok {
		return nil
	}
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

func (d *Document) Len() int {
	return len(d.names)
}

func (d *Document) has(category, subcategory string) bool {
	for _, s := range d.subs[category] {
		if s == subcategory {
			return true
		}
	}
	return false
}

// add appends the subcategory under the category, creating the category at
// the end of the scan order when it is new. Exact duplicates are ignored.
func (d *Document) add(category, subcategory string) {
	if _, ok := d.subs[category]; !ok {
		if d.subs == nil {
			d.subs = make(map[string][]string)
		}
		d.names = append(d.names, category)
		d.subs[category] = []string{subcategory}
		return
	}
	if !d.has(category, subcategory) {
		d.subs[category] = append(d.subs[category], subcategory)
	}
}

// MarshalJSON writes the document as a plain JSON object with keys in
// insertion order. encoding/json would sort map keys, losing the order the
// merge policy depends on.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range d.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(d.subs[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object key by key so the file order becomes the
// in-memory scan order.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("taxonomy document: expected object, got %v", tok)
	}

	d.names = nil
	d.subs = make(map[string][]string)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("taxonomy document: expected string key, got %v", keyTok)
		}

		var subs []string
		if err := dec.Decode(&subs); err != nil {
			return fmt.Errorf("taxonomy document: category %q: %w", key, err)
		}

		if _, exists := d.subs[key]; !exists {
			d.names = append(d.names, key)
		}
		d.subs[key] = subs
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	return nil
}
