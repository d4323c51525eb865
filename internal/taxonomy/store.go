// Package taxonomy owns the two-level skill taxonomy: category names mapped
// to subcategory names. New categories are folded in with fuzzy matching so
// near-duplicate spellings reuse the existing entry instead of fragmenting
// the taxonomy.
package taxonomy

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"github.com/mpawlak/skillatlas/internal/storage"
)

// DefaultThreshold is the minimum similarity ratio for two category names to
// be treated as the same category.
const DefaultThreshold = 0.8

type Store struct {
	doc       *Document
	file      *storage.Document
	threshold float64
	logger    *zap.Logger
}

// Open loads the taxonomy from the given document. A missing or corrupt file
// starts an empty taxonomy; the corruption is logged, not fatal.
func Open(file *storage.Document, threshold float64, logger *zap.Logger) *Store {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	doc := NewDocument()
	if err := file.Load(doc); err != nil {
		logger.Warn("loading taxonomy, starting empty", zap.Error(err))
		doc = NewDocument()
	}

	return &Store{
		doc:       doc,
		file:      file,
		threshold: threshold,
		logger:    logger,
	}
}

// Merge folds one (category, subcategory) proposal into the taxonomy.
//
// Existing category names are scanned in insertion order and the first one
// whose case-insensitive similarity to the proposal reaches the threshold is
// reused; the subcategory is appended under it unless already present. With
// no acceptable match the proposal becomes a new category verbatim. Blank
// input after trimming is a no-op. The whole taxonomy is persisted after
// every effective merge.
func (s *Store) Merge(category, subcategory string) {
	category = strings.TrimSpace(category)
	subcategory = strings.TrimSpace(subcategory)
	if category == "" || subcategory == "" {
		return
	}

	target := category
	if match, ok := s.findSimilar(category); ok {
		target = match
	}

	s.doc.add(target, subcategory)
	s.persist()
}

// findSimilar returns the first existing category name at or above the
// similarity threshold. First match wins, not best match: which spelling
// survives depends on insertion history, and that behavior is kept stable
// on purpose.
func (s *Store) findSimilar(category string) (string, bool) {
	for _, existing := range s.doc.names {
		ratio := Similarity(category, existing)
		if ratio >= s.threshold {
			s.logger.Debug("category matched existing entry",
				zap.String("proposed", category),
				zap.String("existing", existing),
				zap.Float64("similarity", ratio),
			)
			return existing, true
		}
	}
	return "", false
}

func (s *Store) persist() {
	if err := s.file.Save(s.doc); err != nil {
		s.logger.Warn("persisting taxonomy", zap.Error(err))
	}
}

// Document returns the underlying taxonomy document.
func (s *Store) Document() *Document {
	return s.doc
}

// Similarity is the case-insensitive Ratcliff/Obershelp ratio between two
// strings, in [0,1].
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(chars(strings.ToLower(a)), chars(strings.ToLower(b))).Ratio()
}

func chars(s string) []string {
	return strings.Split(s, "")
}
