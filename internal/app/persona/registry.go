package persona

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

//go:embed personas.yaml
var defaultCatalog []byte

type catalogFile struct {
	Personas []domain.Persona `yaml:"personas"`
}

// Registry is the static persona catalog. Safe for concurrent reads.
type Registry struct {
	order []domain.PersonaID
	byID  map[domain.PersonaID]domain.Persona
}

// NewDefaultRegistry loads the embedded catalog.
func NewDefaultRegistry() (*Registry, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path. An empty path means the embedded catalog.
func Load(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return NewDefaultRegistry()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona catalog %s: %w", path, err)
	}
	return Parse(b)
}

// Parse builds a registry from YAML and validates every entry.
func Parse(b []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse persona catalog: %w", err)
	}
	if len(file.Personas) == 0 {
		return nil, errors.New("persona catalog is empty")
	}

	r := &Registry{byID: make(map[domain.PersonaID]domain.Persona, len(file.Personas))}
	for i, p := range file.Personas {
		if p.ID == "" {
			return nil, fmt.Errorf("persona #%d: id is required", i)
		}
		if !p.Feature.Valid() {
			return nil, fmt.Errorf("persona %s: unknown feature %q", p.ID, p.Feature)
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("persona %s: duplicate id", p.ID)
		}
		if len(p.FallbackChat) == 0 {
			return nil, fmt.Errorf("persona %s: at least one fallback_chat line is required", p.ID)
		}
		if p.DisplayName == "" {
			p.DisplayName = string(p.ID)
		}
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r, nil
}

func (r *Registry) Get(id domain.PersonaID) (domain.Persona, error) {
	p, ok := r.byID[id]
	if !ok {
		return domain.Persona{}, fmt.Errorf("%w: %s", domain.ErrPersonaNotFound, id)
	}
	return p, nil
}

// List returns personas in catalog order.
func (r *Registry) List() []domain.Persona {
	out := make([]domain.Persona, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Registry) Default() domain.Persona {
	return r.byID[r.order[0]]
}

// FallbackChat picks one of the persona's canned replies.
func FallbackChat(p domain.Persona, rng domain.RNG) string {
	if len(p.FallbackChat) == 0 {
		return "The signal is faint right now. Let's try again in a moment."
	}
	return p.FallbackChat[rng.IntN(len(p.FallbackChat))]
}

// FallbackReading fills the persona's reading template for a card.
func FallbackReading(p domain.Persona, card domain.DrawnCard) string {
	tmpl := p.FallbackReading
	if tmpl == "" {
		tmpl = "The {card} appears {orientation}. Take a moment with it."
	}
	return strings.NewReplacer(
		"{card}", card.Name,
		"{orientation}", card.Orientation(),
	).Replace(tmpl)
}
