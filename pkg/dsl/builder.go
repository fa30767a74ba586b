package dsl

import (
	"fmt"

	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/graph"
)

// Builder manages the construction of one tutorial.
type Builder struct {
	id      string
	title   string
	start   string
	persona domain.Persona
	steps   []*StepBuilder
	byID    map[string]*StepBuilder
}

// Option configures a Builder.
type Option func(*Builder)

// WithPersona stamps the persona's name and asset into every step that does
// not override them.
func WithPersona(p domain.Persona) Option {
	return func(b *Builder) {
		b.persona = p
	}
}

// WithTitle sets a human-readable title.
func WithTitle(title string) Option {
	return func(b *Builder) {
		b.title = title
	}
}

// New creates a builder for the tutorial id. Without WithPersona the default
// persona is used.
func New(id string, opts ...Option) *Builder {
	b := &Builder{
		id:      id,
		persona: domain.DefaultPersona,
		byID:    make(map[string]*StepBuilder),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add appends a step. If the step already exists, it returns the existing
// builder and keeps its position.
func (b *Builder) Add(id string) *StepBuilder {
	if sb, ok := b.byID[id]; ok {
		return sb
	}
	sb := &StepBuilder{
		step: domain.Step{
			ID:          id,
			Dismissible: true,
		},
	}
	b.steps = append(b.steps, sb)
	b.byID[id] = sb
	return sb
}

// Chain appends one step per text, linked in order, with ids prefix1..prefixN.
func (b *Builder) Chain(prefix string, texts ...string) *Builder {
	for i, text := range texts {
		sb := b.Add(fmt.Sprintf("%s%d", prefix, i+1)).Say(text)
		if i+1 < len(texts) {
			sb.Next(fmt.Sprintf("%s%d", prefix, i+2))
		} else {
			sb.Terminal()
		}
	}
	return b
}

// StartAt sets an explicit start step.
func (b *Builder) StartAt(id string) *Builder {
	b.start = id
	return b
}

// Steps returns the steps in insertion order with the persona applied.
func (b *Builder) Steps() []domain.Step {
	out := make([]domain.Step, 0, len(b.steps))
	for _, sb := range b.steps {
		s := sb.step
		if s.SpeakerName == "" {
			s.SpeakerName = b.persona.Name
		}
		if s.AssetRef == "" {
			s.AssetRef = b.persona.AssetRef
		}
		out = append(out, s)
	}
	return out
}

// Build returns the tutorial after checking its graph.
func (b *Builder) Build() (domain.Tutorial, error) {
	t := domain.Tutorial{
		ID:          b.id,
		Title:       b.title,
		Steps:       b.Steps(),
		StartStepID: b.start,
	}
	if t.ID == "" {
		return domain.Tutorial{}, fmt.Errorf("tutorial id is required")
	}
	if err := graph.ValidateTutorial(t); err != nil {
		return domain.Tutorial{}, fmt.Errorf("invalid tutorial: %w", err)
	}
	return t, nil
}

// MustBuild is like Build but panics on error. Intended for package-level
// tutorial definitions.
func (b *Builder) MustBuild() domain.Tutorial {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
