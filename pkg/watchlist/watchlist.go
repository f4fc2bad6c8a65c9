// Package watchlist loads the currency pairs the quoter polls from YAML or JSON files.
package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/samvad-hq/coinbase-public/pkg/coinbase"
	"gopkg.in/yaml.v3"
)

var pairPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}-[A-Z0-9]{2,10}$`)

// Watch is one pair to poll and the price kinds to fetch for it.
type Watch struct {
	ID      string   `json:"id" yaml:"id"`
	Pair    string   `json:"pair" yaml:"pair"`
	Kinds   []string `json:"kinds" yaml:"kinds"`
	Enabled *bool    `json:"enabled" yaml:"enabled"`
}

type file struct {
	Watches []Watch `json:"watches" yaml:"watches"`
}

// Registry is a validated watchlist.
type Registry struct {
	mu      sync.RWMutex
	watches []Watch
	idx     map[string]Watch
}

// LoadRegistry loads the watchlist from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("watchlist file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist file: %w", err)
	}

	parsed, err := parseFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(parsed.Watches)
}

// NewRegistry sanitizes and validates watches.
func NewRegistry(watches []Watch) (*Registry, error) {
	if len(watches) == 0 {
		return nil, errors.New("watchlist contains no watches entries")
	}

	reg := &Registry{
		watches: make([]Watch, len(watches)),
		idx:     make(map[string]Watch, len(watches)),
	}
	for i := range watches {
		w := sanitizeWatch(watches[i])
		if err := validateWatch(w); err != nil {
			return nil, fmt.Errorf("watches[%d]: %w", i, err)
		}
		if _, exists := reg.idx[w.ID]; exists {
			return nil, fmt.Errorf("duplicate watch id %q", w.ID)
		}
		reg.watches[i] = w
		reg.idx[w.ID] = w
	}
	return reg, nil
}

func parseFile(data []byte, ext string) (file, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f file
		if err := d.fn(data, &f); err == nil {
			return f, nil
		}
	}

	return file{}, errors.New("watchlist file format not recognized (expected YAML or JSON)")
}

func sanitizeWatch(w Watch) Watch {
	w.Pair = strings.ToUpper(strings.TrimSpace(w.Pair))
	w.ID = strings.TrimSpace(w.ID)
	if w.ID == "" {
		w.ID = strings.ToLower(w.Pair)
	}

	kinds := make([]string, 0, len(w.Kinds))
	seen := make(map[string]bool, len(w.Kinds))
	for _, k := range w.Kinds {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		kinds = []string{string(coinbase.PriceSpot)}
	}
	w.Kinds = kinds

	if w.Enabled == nil {
		def := true
		w.Enabled = &def
	}
	return w
}

func validateWatch(w Watch) error {
	if w.Pair == "" {
		return errors.New("pair is required")
	}
	if !pairPattern.MatchString(w.Pair) {
		return fmt.Errorf("pair %q is not of the form BASE-QUOTE", w.Pair)
	}
	for _, k := range w.Kinds {
		if _, err := coinbase.ParsePriceKind(k); err != nil {
			return fmt.Errorf("watch %q: %w", w.ID, err)
		}
	}
	return nil
}

// PriceKinds returns the parsed kinds; the watch must have come from a Registry.
func (w Watch) PriceKinds() []coinbase.PriceKind {
	out := make([]coinbase.PriceKind, 0, len(w.Kinds))
	for _, k := range w.Kinds {
		if pk, err := coinbase.ParsePriceKind(k); err == nil {
			out = append(out, pk)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (w Watch) EnabledValue() bool {
	if w.Enabled == nil {
		return true
	}
	return *w.Enabled
}

// ByID returns the watch by id.
func (r *Registry) ByID(id string) (Watch, bool) {
	if r == nil {
		return Watch{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.idx[strings.TrimSpace(id)]
	return w, ok
}

// All returns every watch in file order.
func (r *Registry) All() []Watch {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Watch, len(r.watches))
	copy(out, r.watches)
	return out
}

// Enabled returns the watches that are enabled.
func (r *Registry) Enabled() []Watch {
	all := r.All()
	if len(all) == 0 {
		return nil
	}
	out := make([]Watch, 0, len(all))
	for _, w := range all {
		if w.EnabledValue() {
			out = append(out, w)
		}
	}
	return out
}
