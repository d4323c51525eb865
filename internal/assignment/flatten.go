package assignment

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Metadata carries the entry fields plus its position in the taxonomy, so a
// search hit can be rendered without going back to the index.
type Metadata struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Skill       string `json:"skill"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// Document is one flattened assignment entry: the text handed to the
// embedding model and the metadata describing it.
type Document struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Flatten produces one document per (category, subcategory, entry) triple.
// The output is a pure function of the index contents: categories and
// subcategories are visited in sorted order, entries in stored order, and
// IDs are content-derived, so the same index always flattens to the same
// documents.
func Flatten(data map[string]map[string][]Entry) []Document {
	categories := make([]string, 0, len(data))
	for cat := range data {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var docs []Document
	for _, cat := range categories {
		subcategories := make([]string, 0, len(data[cat]))
		for subcat := range data[cat] {
			subcategories = append(subcategories, subcat)
		}
		sort.Strings(subcategories)

		for _, subcat := range subcategories {
			for _, entry := range data[cat][subcat] {
				text := fmt.Sprintf(
					"Name: %s %s. Skill: %s. Description: %s. Category: %s. Subcategory: %s.",
					entry.Name, entry.Surname, entry.Skill, entry.Description, cat, subcat,
				)
				docs = append(docs, Document{
					ID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte(text)).String(),
					Text: text,
					Metadata: Metadata{
						Name:        entry.Name,
						Surname:     entry.Surname,
						Skill:       entry.Skill,
						Description: entry.Description,
						Category:    cat,
						Subcategory: subcat,
					},
				})
			}
		}
	}

	return docs
}

// Flatten returns the flattened view of this index.
func (i *Index) Flatten() []Document {
	return Flatten(i.data)
}
