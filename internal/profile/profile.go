package profile

import (
	"fmt"
	"strings"

	"github.com/mpawlak/skillatlas/internal/storage"
)

// Profile is one person's free-text skill description.
type Profile struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Description string `json:"description"`
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.Name + " " + p.Surname)
}

// List is the durable, append-only collection of profiles.
type List struct {
	items []Profile
	file  *storage.Document
}

// Open loads the profile list from the given document. A missing or corrupt
// file yields an empty list and the load error for the caller to log.
func Open(file *storage.Document) (*List, error) {
	list := &List{file: file}
	err := file.Load(&list.items)
	if err != nil {
		list.items = nil
	}
	return list, err
}

func (l *List) Items() []Profile {
	return l.items
}

func (l *List) Len() int {
	return len(l.items)
}

// Add appends the profile and persists the whole list.
func (l *List) Add(p Profile) error {
	l.items = append(l.items, p)
	if err := l.file.Save(l.items); err != nil {
		return fmt.Errorf("saving profiles: %w", err)
	}
	return nil
}
