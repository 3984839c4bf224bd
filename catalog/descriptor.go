package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAvatar     = "🧠"
	DefaultBackground = "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"
	DefaultUnlock     = 1
)

var ErrInvalidDescriptor = errors.New("invalid catalog descriptor")

// AgentSpec is one persona entry of the descriptor. Role, goal and
// backstory are required; everything else falls back to a default.
type AgentSpec struct {
	Role        string `yaml:"role" validate:"required"`
	Goal        string `yaml:"goal" validate:"required"`
	Backstory   string `yaml:"backstory" validate:"required"`
	Avatar      string `yaml:"avatar"`
	Background  string `yaml:"background"`
	UnlockLevel int    `yaml:"unlock_level" validate:"omitempty,min=1"`
	Reaction    string `yaml:"reaction"`
}

type SnippetSpec struct {
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description"`
	Code        string `yaml:"code" validate:"required"`
	Tier        int    `yaml:"tier" validate:"oneof=0 25 50"`
}

type CollectionSpec struct {
	Name  string        `yaml:"name" validate:"required"`
	Icon  string        `yaml:"icon"`
	Items []SnippetSpec `yaml:"items" validate:"dive"`
}

type NamedAgent struct {
	Name string
	Spec AgentSpec
}

type NamedCollection struct {
	Persona string
	Spec    CollectionSpec
}

// Descriptor is the decoded catalog file. Entries keep the order they were
// written in.
type Descriptor struct {
	Agents   []NamedAgent
	Snippets []NamedCollection
}

func (d *Descriptor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: top level must be a mapping", ErrInvalidDescriptor)
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		key, body := value.Content[i].Value, value.Content[i+1]
		switch key {
		case "agents":
			err := eachPair(body, func(name string, node *yaml.Node) error {
				var spec AgentSpec
				if err := node.Decode(&spec); err != nil {
					return fmt.Errorf("agent %q: %w", name, err)
				}
				d.Agents = append(d.Agents, NamedAgent{Name: name, Spec: spec})
				return nil
			})
			if err != nil {
				return err
			}
		case "snippets":
			err := eachPair(body, func(name string, node *yaml.Node) error {
				var spec CollectionSpec
				if err := node.Decode(&spec); err != nil {
					return fmt.Errorf("snippets %q: %w", name, err)
				}
				d.Snippets = append(d.Snippets, NamedCollection{Persona: name, Spec: spec})
				return nil
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: expected a mapping", ErrInvalidDescriptor, node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

var validate = validator.New()

// Validate checks required fields and cross references.
func (d *Descriptor) Validate() error {
	if len(d.Agents) == 0 {
		return fmt.Errorf("%w: no agents defined", ErrInvalidDescriptor)
	}

	seen := make(map[string]bool, len(d.Agents))
	for _, a := range d.Agents {
		if a.Name == "" {
			return fmt.Errorf("%w: agent with empty name", ErrInvalidDescriptor)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: duplicate agent %q", ErrInvalidDescriptor, a.Name)
		}
		seen[a.Name] = true
		if err := validate.Struct(a.Spec); err != nil {
			return fmt.Errorf("%w: agent %q: %v", ErrInvalidDescriptor, a.Name, err)
		}
	}

	for _, c := range d.Snippets {
		if !seen[c.Persona] {
			return fmt.Errorf("%w: snippets for unknown agent %q", ErrInvalidDescriptor, c.Persona)
		}
		if err := validate.Struct(c.Spec); err != nil {
			return fmt.Errorf("%w: snippets %q: %v", ErrInvalidDescriptor, c.Persona, err)
		}
	}
	return nil
}

func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog descriptor: %w", err)
	}
	return ParseDescriptor(data)
}
