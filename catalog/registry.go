package catalog

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed personas.yaml
var defaultDescriptor []byte

type Persona struct {
	Name              string `json:"name"`
	Role              string `json:"role"`
	Goal              string `json:"goal"`
	Backstory         string `json:"backstory"`
	Avatar            string `json:"avatar"`
	Background        string `json:"background"`
	DisplayBackground string `json:"display_background"`
	Reaction          string `json:"reaction,omitempty"`
	UnlockLevel       int    `json:"unlock_level"`
	// UnlockBand groups personas for display: 1, 3 or 5.
	UnlockBand int `json:"unlock_band"`
}

// Label is the one-line description shown in persona pickers.
func (p Persona) Label() string {
	if p.Goal == "" {
		return p.Role
	}
	return p.Role + " - " + p.Goal
}

type Snippet struct {
	Persona     string `json:"persona"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Tier        int    `json:"tier"`
}

type Collection struct {
	Persona  string    `json:"persona"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	Snippets []Snippet `json:"snippets"`
}

// Registry is the immutable persona and snippet catalog.
type Registry struct {
	personas    []Persona
	index       map[string]int
	collections map[string]Collection
}

func New(d *Descriptor) (*Registry, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		personas:    make([]Persona, 0, len(d.Agents)),
		index:       make(map[string]int, len(d.Agents)),
		collections: make(map[string]Collection, len(d.Snippets)),
	}

	for _, a := range d.Agents {
		r.index[a.Name] = len(r.personas)
		r.personas = append(r.personas, buildPersona(a))
	}

	for _, c := range d.Snippets {
		col := Collection{
			Persona:  c.Persona,
			Name:     c.Spec.Name,
			Icon:     c.Spec.Icon,
			Snippets: make([]Snippet, 0, len(c.Spec.Items)),
		}
		for _, item := range c.Spec.Items {
			col.Snippets = append(col.Snippets, Snippet{
				Persona:     c.Persona,
				Title:       item.Title,
				Description: item.Description,
				Code:        item.Code,
				Tier:        item.Tier,
			})
		}
		r.collections[c.Persona] = col
	}

	return r, nil
}

// Load builds a registry from a descriptor file. An empty path selects the
// built-in catalog.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	d, err := LoadDescriptor(path)
	if err != nil {
		return nil, err
	}
	return New(d)
}

func Default() (*Registry, error) {
	d, err := ParseDescriptor(defaultDescriptor)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	return New(d)
}

func buildPersona(a NamedAgent) Persona {
	p := Persona{
		Name:        a.Name,
		Role:        a.Spec.Role,
		Goal:        a.Spec.Goal,
		Backstory:   a.Spec.Backstory,
		Avatar:      a.Spec.Avatar,
		Background:  a.Spec.Background,
		Reaction:    a.Spec.Reaction,
		UnlockLevel: a.Spec.UnlockLevel,
	}
	if p.Avatar == "" {
		p.Avatar = DefaultAvatar
	}
	if p.Background == "" {
		p.Background = DefaultBackground
	}
	if p.UnlockLevel < 1 {
		p.UnlockLevel = DefaultUnlock
	}
	p.DisplayBackground = DisplayBackground(p.Background)
	p.UnlockBand = unlockBand(p.UnlockLevel)
	return p
}

// DisplayBackground makes a persona background translucent so text on top
// of it stays readable.
func DisplayBackground(bg string) string {
	if strings.Contains(bg, "rgb(") {
		bg = strings.ReplaceAll(bg, "rgb(", "rgba(")
		return strings.ReplaceAll(bg, ")", ", 0.85)")
	}
	if strings.Contains(bg, "#") && strings.Contains(bg, "gradient") {
		return "linear-gradient(rgba(0,0,0,0.15), rgba(0,0,0,0.15)), " + bg
	}
	return bg
}

// unlockBand matches the starter and level 11 tiers exactly; anything else
// shares the top band.
func unlockBand(unlockLevel int) int {
	switch unlockLevel {
	case 1:
		return 1
	case 11:
		return 3
	default:
		return 5
	}
}

func (r *Registry) Count() int {
	return len(r.personas)
}

// Personas returns every persona in catalog order.
func (r *Registry) Personas() []Persona {
	out := make([]Persona, len(r.personas))
	copy(out, r.personas)
	return out
}

func (r *Registry) Persona(name string) (Persona, bool) {
	i, ok := r.index[name]
	if !ok {
		return Persona{}, false
	}
	return r.personas[i], true
}

// UnlockLevel of an unknown persona is 1.
func (r *Registry) UnlockLevel(name string) int {
	if p, ok := r.Persona(name); ok {
		return p.UnlockLevel
	}
	return DefaultUnlock
}

func (r *Registry) IsUnlocked(persona string, level int) bool {
	return level >= r.UnlockLevel(persona)
}

// Available lists the personas unlocked at level, in catalog order.
func (r *Registry) Available(level int) []Persona {
	var out []Persona
	for _, p := range r.personas {
		if level >= p.UnlockLevel {
			out = append(out, p)
		}
	}
	return out
}

// NextUnlock returns the persona with the smallest unlock level above
// level. Ties go to the alphabetically first name.
func (r *Registry) NextUnlock(level int) (Persona, bool) {
	var (
		next  Persona
		found bool
	)
	for _, p := range r.personas {
		if p.UnlockLevel <= level {
			continue
		}
		if !found || p.UnlockLevel < next.UnlockLevel ||
			(p.UnlockLevel == next.UnlockLevel && p.Name < next.Name) {
			next, found = p, true
		}
	}
	return next, found
}

func (r *Registry) Collection(persona string) (Collection, bool) {
	c, ok := r.collections[persona]
	return c, ok
}

// Snippets returns the persona's whole collection in authoring order.
func (r *Registry) Snippets(persona string) []Snippet {
	c, ok := r.collections[persona]
	if !ok {
		return nil
	}
	out := make([]Snippet, len(c.Snippets))
	copy(out, c.Snippets)
	return out
}

// UnlockedSnippets returns the persona's snippets whose tier is at most
// affinity, in authoring order.
func (r *Registry) UnlockedSnippets(persona string, affinity int) []Snippet {
	c, ok := r.collections[persona]
	if !ok {
		return nil
	}
	var out []Snippet
	for _, s := range c.Snippets {
		if s.Tier <= affinity {
			out = append(out, s)
		}
	}
	return out
}
