// Package collection stores the printings a user owns, keyed by
// normalized card name, in a single JSON object file. The file is
// rewritten in full on every mutation; the tool assumes a single user and
// a single process.
package collection

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"staplecheck/lib/cardname"
)

type Collection struct {
	path string

	mu    sync.Mutex
	cards map[string][]string
}

// Open loads the collection file at path, creating an empty one when it
// does not exist yet.
func Open(path string) (*Collection, error) {
	c := &Collection{path: path, cards: map[string][]string{}}

	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, c.store()
	}
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", path, err)
	}

	err = json.Unmarshal(contents, &c.cards)
	if err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", path, err)
	}
	return c, nil
}

// Get returns a copy of the owned printing codes for a card.
func (c *Collection) Get(name string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.cards[cardname.Normalize(name)])
}

// Add records one owned printing of a card and persists the collection.
func (c *Collection) Add(name, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cardname.Normalize(name)
	c.cards[key] = append(c.cards[key], code)
	return c.store()
}

// Remove deletes one owned printing of a card, if present, and persists
// the collection.
func (c *Collection) Remove(name, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cardname.Normalize(name)
	versions := c.cards[key]
	idx := slices.Index(versions, code)
	if idx < 0 {
		return nil
	}
	c.cards[key] = slices.Delete(versions, idx, idx+1)
	return c.store()
}

func (c *Collection) store() error {
	err := os.MkdirAll(filepath.Dir(c.path), 0755)
	if err != nil {
		return fmt.Errorf("create collection directory: %w", err)
	}
	serialized, err := json.Marshal(c.cards)
	if err != nil {
		return fmt.Errorf("serialize collection: %w", err)
	}
	err = os.WriteFile(c.path, serialized, 0644)
	if err != nil {
		return fmt.Errorf("write collection %s: %w", c.path, err)
	}
	return nil
}
