package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
	"finhabit/pkg/platform/sentinel"
)

// InMemory is a read-mostly template catalog for tests and dev mode.
type InMemory struct {
	mu        sync.RWMutex
	templates map[id.TemplateID]*models.TaskTemplate
}

// NewInMemory constructs a catalog holding templates.
func NewInMemory(templates ...*models.TaskTemplate) *InMemory {
	c := &InMemory{templates: make(map[id.TemplateID]*models.TaskTemplate, len(templates))}
	for _, t := range templates {
		c.templates[t.ID] = t
	}
	return c
}

// Add inserts a template. It fails with ErrAlreadyUsed on a duplicate id.
func (c *InMemory) Add(_ context.Context, t *models.TaskTemplate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.templates[t.ID]; ok {
		return fmt.Errorf("template %s: %w", t.ID, sentinel.ErrAlreadyUsed)
	}
	c.templates[t.ID] = t
	return nil
}

func (c *InMemory) ListEligible(_ context.Context, level int) ([]*models.TaskTemplate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*models.TaskTemplate, 0, len(c.templates))
	for _, t := range c.templates {
		if t.EligibleFor(level) {
			copied := *t
			out = append(out, &copied)
		}
	}
	SortTemplates(out)
	return out, nil
}

func (c *InMemory) FindByIDs(_ context.Context, ids []id.TemplateID) (map[id.TemplateID]*models.TaskTemplate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[id.TemplateID]*models.TaskTemplate, len(ids))
	for _, templateID := range ids {
		if t, ok := c.templates[templateID]; ok {
			copied := *t
			out[templateID] = &copied
		}
	}
	return out, nil
}

// SortTemplates orders templates by level, then content, then id. Catalogs
// return a stable order so a seeded random source picks reproducibly.
func SortTemplates(list []*models.TaskTemplate) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.MinLevel != b.MinLevel {
			return a.MinLevel < b.MinLevel
		}
		if a.Content != b.Content {
			return a.Content < b.Content
		}
		return a.ID.String() < b.ID.String()
	})
}
