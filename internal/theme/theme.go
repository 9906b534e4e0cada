// Package theme resolves and persists the light or dark colour scheme.
package theme

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// StorageKey is the key the user's choice is persisted under.
const StorageKey = "userThemePreference"

// Name identifies a colour scheme.
type Name string

const (
	Light Name = "light"
	Dark  Name = "dark"
)

// Opposite returns the other scheme.
func (n Name) Opposite() Name {
	if n == Dark {
		return Light
	}
	return Dark
}

// Colors returns the palette for n.
func (n Name) Colors() Colors {
	if n == Dark {
		return DarkColors
	}
	return LightColors
}

// Colors is the set of semantic colours a scheme provides.
type Colors struct {
	Primary    lipgloss.Color
	Background lipgloss.Color
	Card       lipgloss.Color
	Text       lipgloss.Color
	TextMuted  lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
}

var LightColors = Colors{
	Primary:    lipgloss.Color("#007AFF"),
	Background: lipgloss.Color("#F5F5F5"),
	Card:       lipgloss.Color("#FFFFFF"),
	Text:       lipgloss.Color("#1C1C1E"),
	TextMuted:  lipgloss.Color("#6C757D"),
	Border:     lipgloss.Color("#E0E0E0"),
	Success:    lipgloss.Color("#28A745"),
	Error:      lipgloss.Color("#DC3545"),
}

var DarkColors = Colors{
	Primary:    lipgloss.Color("#1E90FF"),
	Background: lipgloss.Color("#121212"),
	Card:       lipgloss.Color("#1E1E1E"),
	Text:       lipgloss.Color("#FFFFFF"),
	TextMuted:  lipgloss.Color("#A0A0A0"),
	Border:     lipgloss.Color("#333333"),
	Success:    lipgloss.Color("#3CB371"),
	Error:      lipgloss.Color("#FF6347"),
}

// ParseName accepts "light" or "dark" in any case.
func ParseName(s string) (Name, error) {
	switch Name(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("unknown theme %q: expected light or dark", s)
	}
}

var hasDarkBackground = lipgloss.HasDarkBackground

// System reports the terminal's scheme from its background colour.
func System() Name {
	if hasDarkBackground() {
		return Dark
	}
	return Light
}

// Resolve picks the scheme for a configured value: "light" or "dark" as given, anything else follows [System].
func Resolve(configured string) Name {
	if name, err := ParseName(configured); err == nil {
		return name
	}
	return System()
}

// Storage is a durable string key/value store.
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// Provider holds the active scheme and persists changes.
type Provider struct {
	storage Storage

	mu   sync.RWMutex
	name Name
}

// Load returns a [Provider] using the stored preference, or fallback when none is stored or it is unrecognised.
func Load(storage Storage, fallback Name) (*Provider, error) {
	if fallback != Light && fallback != Dark {
		fallback = System()
	}

	p := &Provider{storage: storage, name: fallback}

	stored, ok, err := storage.GetItem(StorageKey)
	if err != nil {
		return p, err
	}
	if ok {
		if name, err := ParseName(stored); err == nil {
			p.name = name
		}
	}
	return p, nil
}

// Current returns the active scheme.
func (p *Provider) Current() Name {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// Colors returns the active palette.
func (p *Provider) Colors() Colors {
	return p.Current().Colors()
}

// Set switches to name and persists it. The switch applies even when persisting fails.
func (p *Provider) Set(name Name) error {
	if name != Light && name != Dark {
		return fmt.Errorf("unknown theme %q: expected light or dark", name)
	}

	p.mu.Lock()
	p.name = name
	p.mu.Unlock()

	return p.storage.SetItem(StorageKey, string(name))
}

// Toggle flips between light and dark, returning the new scheme.
func (p *Provider) Toggle() (Name, error) {
	p.mu.Lock()
	next := p.name.Opposite()
	p.name = next
	p.mu.Unlock()

	return next, p.storage.SetItem(StorageKey, string(next))
}
