// Package assignment owns the index of who has which skill, keyed by the
// literal category and subcategory strings the classifier returned. Unlike
// the taxonomy there is no fuzzy matching here: keys are compared exactly
// and entries are deduplicated field by field. The two layers stay
// deliberately asymmetric; unifying them would move entries under different
// survivor keys than the classifier reported.
package assignment

import (
	"strings"

	"go.uber.org/zap"

	"github.com/mpawlak/skillatlas/internal/profile"
	"github.com/mpawlak/skillatlas/internal/storage"
)

// Entry links one person to one skill under one category/subcategory.
type Entry struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Skill       string `json:"skill"`
	Description string `json:"description"`
}

type Index struct {
	data   map[string]map[string][]Entry
	file   *storage.Document
	logger *zap.Logger
}

// Open loads the assignment index from the given document. A missing or
// corrupt file starts an empty index; the corruption is logged, not fatal.
func Open(file *storage.Document, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}

	data := make(map[string]map[string][]Entry)
	if err := file.Load(&data); err != nil {
		logger.Warn("loading assignments, starting empty", zap.Error(err))
		data = make(map[string]map[string][]Entry)
	}
	if data == nil {
		data = make(map[string]map[string][]Entry)
	}

	return &Index{data: data, file: file, logger: logger}
}

// Append records that the profile has the skill under the given category and
// subcategory. Blank keys after trimming are a no-op. The entry's name,
// surname and description are trimmed from the profile; the skill is stored
// exactly as provided. An entry equal in all four fields to one already
// stored under the same keys is silently dropped. The whole index is
// persisted after every appended entry.
func (i *Index) Append(category, subcategory string, p profile.Profile, skill string) {
	category = strings.TrimSpace(category)
	subcategory = strings.TrimSpace(subcategory)
	if category == "" || subcategory == "" {
		return
	}

	entry := Entry{
		Name:        strings.TrimSpace(p.Name),
		Surname:     strings.TrimSpace(p.Surname),
		Skill:       skill,
		Description: strings.TrimSpace(p.Description),
	}

	if _, ok := i.data[category]; !ok {
		i.data[category] = make(map[string][]Entry)
	}

	for _, existing := range i.data[category][subcategory] {
		if existing == entry {
			return
		}
	}

	i.data[category][subcategory] = append(i.data[category][subcategory], entry)

	if err := i.file.Save(i.data); err != nil {
		i.logger.Warn("persisting assignments", zap.Error(err))
	}
}

// Entries returns the list stored under the exact category/subcategory keys.
func (i *Index) Entries(category, subcategory string) []Entry {
	subs, ok := i.data[category]
	if !ok {
		return nil
	}
	out := make([]Entry, len(subs[subcategory]))
	copy(out, subs[subcategory])
	return out
}

// Data returns the underlying nested mapping.
func (i *Index) Data() map[string]map[string][]Entry {
	return i.data
}
