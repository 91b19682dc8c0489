// Package snippet persists the user's saved code snippets.
//
// The whole list is stored as one JSON array under a single key. Manager
// reads it once and then writes the full list back on every change, so the
// in-memory copy always matches the store.
package snippet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gsarma/codepad/internal/language"
)

// DefaultKey is the slot the snippet list is stored under.
const DefaultKey = "savedCodes"

// Snippet is a named piece of source saved by the user.
type Snippet struct {
	Name     string           `json:"name"`
	Code     string           `json:"code"`
	Language language.Profile `json:"language"`
}

// Logger receives warnings about the persisted slot.
// *slog.Logger satisfies it.
type Logger interface {
	Warn(msg string, args ...any)
}

// Manager is a write-through cache over the snippet slot.
type Manager struct {
	store Store
	key   string

	mu    sync.Mutex
	cache []Snippet
}

// NewManager loads the snippet list from store. A missing slot is an empty
// list; so is an unreadable one, which is logged and left in place until the
// next save overwrites it. A nil logger uses slog.Default().
func NewManager(ctx context.Context, store Store, key string, logger Logger) (*Manager, error) {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{store: store, key: key}

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load snippets: %w", err)
	}
	if ok {
		if err := json.Unmarshal(raw, &m.cache); err != nil {
			logger.Warn("ignoring malformed snippet slot", "key", key, "error", err)
			m.cache = nil
		}
	}
	return m, nil
}

// List returns the saved snippets in save order.
func (m *Manager) List() []Snippet {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Snippet, len(m.cache))
	copy(out, m.cache)
	return out
}

// Get returns the snippet at index.
func (m *Manager) Get(index int) (Snippet, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.cache) {
		return Snippet{}, false
	}
	return m.cache[index], true
}

// Save appends a snippet. A blank name abandons the save and reports false.
// Names are not unique.
func (m *Manager) Save(ctx context.Context, name, code string, profile language.Profile) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	updated := make([]Snippet, len(m.cache), len(m.cache)+1)
	copy(updated, m.cache)
	updated = append(updated, Snippet{Name: name, Code: code, Language: profile})

	raw, err := json.Marshal(updated)
	if err != nil {
		return false, fmt.Errorf("encode snippets: %w", err)
	}
	if err := m.store.Set(ctx, m.key, raw); err != nil {
		return false, fmt.Errorf("save snippet: %w", err)
	}
	m.cache = updated
	return true, nil
}

// Clear removes every saved snippet. Clearing an empty list is a no-op.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Remove(ctx, m.key); err != nil {
		return fmt.Errorf("clear snippets: %w", err)
	}
	m.cache = nil
	return nil
}
