// Package rules holds the per-language static rule sets and the registry that
// dispatches a language tag to its rule set.
package rules

import (
	"sort"
	"sync"

	"frscan/internal/types"
)

// RuleSet scans source text and reports findings. Implementations must be
// deterministic and free of side effects.
type RuleSet interface {
	Scan(code string) []types.Finding
}

// Registry maps a language tag to its RuleSet.
type Registry struct {
	mu   sync.RWMutex
	sets map[string]RuleSet
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]RuleSet)}
}

// Register binds lang to rs, replacing any previous binding.
func (r *Registry) Register(lang string, rs RuleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[lang] = rs
}

// Lookup returns the rule set registered for lang.
func (r *Registry) Lookup(lang string) (RuleSet, bool) {
	if lang == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.sets[lang]
	return rs, ok
}

// Scan runs the rule set for lang over code. Unregistered or empty languages
// yield an empty, non-nil slice.
func (r *Registry) Scan(lang, code string) []types.Finding {
	rs, ok := r.Lookup(lang)
	if !ok {
		return []types.Finding{}
	}
	out := rs.Scan(code)
	if out == nil {
		return []types.Finding{}
	}
	return out
}

// Languages returns the registered language tags in sorted order.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sets))
	for lang := range r.sets {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry with every built-in language.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		RegisterBuiltins(defaultReg)
	})
	return defaultReg
}
