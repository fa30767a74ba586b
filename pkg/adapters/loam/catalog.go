// Package loam reads tutorials from a directory of Markdown step documents
// using the loam document store.
//
// Each document is one step: the frontmatter carries the step fields and the
// body is the message.
//
//	---
//	tutorial: home_playlists
//	id: step1
//	next: step2
//	order: 1
//	---
//	Use the "New playlist" button below to create one.
package loam

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/graph"
)

// Catalog implements ports.Catalog over a loam repository.
type Catalog struct {
	Repo    *loam.TypedRepository[StepMetadata]
	persona domain.Persona
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithPersona fills SpeakerName and AssetRef of steps that leave them empty.
func WithPersona(p domain.Persona) Option {
	return func(c *Catalog) {
		c.persona = p
	}
}

// New creates a catalog over an already initialized repository.
func New(repo *loam.TypedRepository[StepMetadata], opts ...Option) *Catalog {
	c := &Catalog{Repo: repo, persona: domain.DefaultPersona}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open initializes a read-only loam repository at dir.
func Open(dir string, opts ...Option) (*Catalog, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithReadOnly(true),
		loam.WithVersioning(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[StepMetadata](repo), opts...), nil
}

type entry struct {
	docID string
	meta  StepMetadata
	step  domain.Step
}

// Get assembles the tutorial with the given ID from its step documents.
func (c *Catalog) Get(ctx context.Context, id string) (domain.Tutorial, error) {
	groups, err := c.groups(ctx)
	if err != nil {
		return domain.Tutorial{}, err
	}
	entries, ok := groups[id]
	if !ok {
		return domain.Tutorial{}, fmt.Errorf("%w: %s", domain.ErrTutorialNotFound, id)
	}

	t := domain.Tutorial{ID: id, Steps: make([]domain.Step, 0, len(entries))}
	for _, e := range entries {
		if t.Title == "" {
			t.Title = e.meta.Title
		}
		if e.meta.Start && t.StartStepID == "" {
			t.StartStepID = e.step.ID
		}
		t.Steps = append(t.Steps, e.step)
	}
	// Without a step flagged as start, the first one in order opens the tutorial.
	if t.StartStepID == "" && len(t.Steps) > 0 {
		t.StartStepID = t.Steps[0].ID
	}
	if err := graph.ValidateTutorial(t); err != nil {
		return domain.Tutorial{}, err
	}
	return t, nil
}

// List returns the IDs of every tutorial in the repository.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	groups, err := c.groups(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (c *Catalog) groups(ctx context.Context) (map[string][]entry, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	groups := make(map[string][]entry)
	for _, doc := range docs {
		docID := filepath.ToSlash(doc.ID)
		meta := doc.Data

		tutorialID := meta.Tutorial
		if tutorialID == "" {
			tutorialID = path.Dir(docID)
		}
		if tutorialID == "." || tutorialID == "" {
			return nil, fmt.Errorf("document %q: no tutorial set and not inside a tutorial directory", docID)
		}

		stepID := meta.ID
		if stepID == "" {
			stepID = trimExtension(path.Base(docID))
		}

		groups[tutorialID] = append(groups[tutorialID], entry{
			docID: docID,
			meta:  meta,
			step:  c.step(stepID, meta, doc.Content),
		})
	}

	for _, entries := range groups {
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].meta.Order != entries[j].meta.Order {
				return entries[i].meta.Order < entries[j].meta.Order
			}
			return entries[i].docID < entries[j].docID
		})
	}
	return groups, nil
}

func (c *Catalog) step(id string, meta StepMetadata, content string) domain.Step {
	s := domain.Step{
		ID:          id,
		SpeakerName: meta.Speaker,
		Text:        strings.TrimSpace(content),
		AssetRef:    meta.Asset,
		Dismissible: true,
		NextStepID:  meta.Next,
	}
	if meta.Dismissible != nil {
		s.Dismissible = *meta.Dismissible
	}
	if s.SpeakerName == "" {
		s.SpeakerName = c.persona.Name
	}
	if s.AssetRef == "" {
		s.AssetRef = c.persona.AssetRef
	}
	return s
}

func trimExtension(id string) string {
	return strings.TrimSuffix(id, path.Ext(id))
}
