package preset

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"fadebatch/internal/host"
	"fadebatch/internal/services"
)

var (
	// ErrEffectNotFound is returned by Refresh when the host lacks the effect.
	ErrEffectNotFound = fmt.Errorf("effect not found: %w", services.ErrNotFound)
	// ErrUnknownPreset is returned by Resolve for a name missing from the catalog.
	ErrUnknownPreset = fmt.Errorf("unknown preset: %w", services.ErrConfiguration)
)

// Selection is the preset choice and fade lengths applied to every file.
type Selection struct {
	FadeInPreset   string
	FadeOutPreset  string
	FadeInSeconds  float64
	FadeOutSeconds float64
}

// Catalog holds the presets of one host effect.
type Catalog struct {
	host host.Host
	tag  language.Tag

	mu     sync.RWMutex
	effect host.Effect
	names  []string
	sorted []string
}

// NewCatalog returns an empty catalog backed by h. Display order is collated
// for English.
func NewCatalog(h host.Host) *Catalog {
	return &Catalog{host: h, tag: language.English}
}

// Refresh looks up effectName on the host and replaces the catalog with its
// presets. It returns the presets in host order.
func (c *Catalog) Refresh(ctx context.Context, effectName string) ([]string, error) {
	effectName = strings.TrimSpace(effectName)
	effect, ok, err := c.host.FindEffect(ctx, effectName)
	if err != nil {
		return nil, services.Wrap(services.ErrHostFault, "presets", "find effect", effectName, err)
	}
	if !ok || effect == nil {
		c.mu.Lock()
		c.effect, c.names, c.sorted = nil, nil, nil
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrEffectNotFound, effectName)
	}

	names := effect.PresetNames()
	sorted := slices.Clone(names)
	collator := collate.New(c.tag)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return collator.CompareString(a, b)
	})

	c.mu.Lock()
	c.effect = effect
	c.names = slices.Clone(names)
	c.sorted = sorted
	c.mu.Unlock()
	return names, nil
}

// Effect returns the effect found by the last successful Refresh, or nil.
func (c *Catalog) Effect() host.Effect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.effect
}

// Names returns presets in host order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.names)
}

// Sorted returns presets in display order.
func (c *Catalog) Sorted() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.sorted)
}

// IsEmpty reports whether the catalog has no presets.
func (c *Catalog) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names) == 0
}

// Contains reports whether name is an exact preset name.
func (c *Catalog) Contains(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.names, name)
}

// Resolve fills empty preset names with the first preset in display order and
// rejects names the catalog does not contain. An empty catalog leaves empty
// names untouched.
func (c *Catalog) Resolve(sel Selection) (Selection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	first := ""
	if len(c.sorted) > 0 {
		first = c.sorted[0]
	}
	resolve := func(name string) (string, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return first, nil
		}
		if !slices.Contains(c.names, name) {
			return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}
		return name, nil
	}

	var err error
	if sel.FadeInPreset, err = resolve(sel.FadeInPreset); err != nil {
		return Selection{}, err
	}
	if sel.FadeOutPreset, err = resolve(sel.FadeOutPreset); err != nil {
		return Selection{}, err
	}
	return sel, nil
}
