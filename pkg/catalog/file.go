package catalog

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/oolestudio/tamashi/pkg/adapters/memory"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/graph"
	"github.com/oolestudio/tamashi/pkg/ports"
	"gopkg.in/yaml.v3"
)

// fileDocument is the on-disk layout of a YAML catalog.
type fileDocument struct {
	Tutorials []fileTutorial `mapstructure:"tutorials"`
}

type fileTutorial struct {
	ID    string     `mapstructure:"id"`
	Title string     `mapstructure:"title"`
	Start string     `mapstructure:"start"`
	Steps []fileStep `mapstructure:"steps"`
}

type fileStep struct {
	ID          string `mapstructure:"id"`
	Text        string `mapstructure:"text"`
	Next        string `mapstructure:"next"`
	Speaker     string `mapstructure:"speaker"`
	Asset       string `mapstructure:"asset"`
	Dismissible *bool  `mapstructure:"dismissible"`
}

// File is a catalog read from a YAML document.
type File struct {
	*memory.Catalog
	Path string
}

// Option configures how a catalog is read.
type Option func(*options)

type options struct {
	lenient bool
}

// Lenient keeps tutorials whose step graph fails validation, so a caller
// such as an authoring check can report every problem instead of the first.
func Lenient() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// LoadFile reads and validates the YAML catalog at path.
func LoadFile(path string, p domain.Persona, opts ...Option) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	tutorials, err := Parse(data, p, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &File{Catalog: memory.NewCatalog(tutorials...), Path: path}, nil
}

// Parse decodes a YAML catalog. Steps without a speaker or asset get the
// persona's. Every tutorial must pass graph validation unless Lenient is
// given; missing or repeated tutorial IDs are always rejected.
func Parse(data []byte, p domain.Persona, opts ...Option) ([]domain.Tutorial, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	var doc fileDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	seen := make(map[string]bool, len(doc.Tutorials))
	out := make([]domain.Tutorial, 0, len(doc.Tutorials))
	for i, ft := range doc.Tutorials {
		if ft.ID == "" {
			return nil, fmt.Errorf("tutorial #%d has no id", i)
		}
		if seen[ft.ID] {
			return nil, fmt.Errorf("tutorial %q is defined twice", ft.ID)
		}
		seen[ft.ID] = true

		t := ft.toDomain(p)
		if o.lenient {
			out = append(out, t)
			continue
		}
		if err := graph.ValidateTutorial(t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (ft fileTutorial) toDomain(p domain.Persona) domain.Tutorial {
	t := domain.Tutorial{
		ID:          ft.ID,
		Title:       ft.Title,
		StartStepID: ft.Start,
		Steps:       make([]domain.Step, 0, len(ft.Steps)),
	}
	for _, fs := range ft.Steps {
		s := domain.Step{
			ID:          fs.ID,
			SpeakerName: fs.Speaker,
			Text:        fs.Text,
			AssetRef:    fs.Asset,
			Dismissible: true,
			NextStepID:  fs.Next,
		}
		if fs.Dismissible != nil {
			s.Dismissible = *fs.Dismissible
		}
		if s.SpeakerName == "" {
			s.SpeakerName = p.Name
		}
		if s.AssetRef == "" {
			s.AssetRef = p.AssetRef
		}
		t.Steps = append(t.Steps, s)
	}
	return t
}

// Marshal renders tutorials in the YAML catalog layout.
func Marshal(tutorials []domain.Tutorial) ([]byte, error) {
	type step struct {
		ID          string `yaml:"id"`
		Text        string `yaml:"text,omitempty"`
		Next        string `yaml:"next,omitempty"`
		Speaker     string `yaml:"speaker,omitempty"`
		Asset       string `yaml:"asset,omitempty"`
		Dismissible bool   `yaml:"dismissible"`
	}
	type tutorial struct {
		ID    string `yaml:"id"`
		Title string `yaml:"title,omitempty"`
		Start string `yaml:"start,omitempty"`
		Steps []step `yaml:"steps"`
	}

	doc := struct {
		Tutorials []tutorial `yaml:"tutorials"`
	}{}
	for _, t := range tutorials {
		ft := tutorial{ID: t.ID, Title: t.Title, Start: t.StartStepID}
		for _, s := range t.Steps {
			ft.Steps = append(ft.Steps, step{
				ID:          s.ID,
				Text:        s.Text,
				Next:        s.NextStepID,
				Speaker:     s.SpeakerName,
				Asset:       s.AssetRef,
				Dismissible: s.Dismissible,
			})
		}
		doc.Tutorials = append(doc.Tutorials, ft)
	}
	return yaml.Marshal(doc)
}

var _ ports.Catalog = (*File)(nil)
