package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
	"finhabit/pkg/platform/sentinel"
)

// seedNamespace derives stable template ids from content so reseeding is idempotent.
var seedNamespace = uuid.MustParse("8f7c2f4e-6b7a-4d59-9a43-3c1e0f6d2a10")

type seedRow struct {
	content     string
	minLevel    int
	targetCount int
}

var seedRows = []seedRow{
	{"Write down every expense today", 1, 3},
	{"Skip one delivery order", 1, 2},
	{"Bring lunch from home", 1, 3},
	{"Check your account balance", 1, 1},
	{"Move spare change to savings", 2, 2},
	{"Cancel one unused subscription", 2, 1},
	{"Compare prices before a purchase", 2, 3},
	{"Set a spending cap for the week", 3, 1},
	{"Review last month's card statement", 3, 1},
	{"Plan a no-spend day", 3, 2},
}

// SeedTemplates returns the development catalog.
func SeedTemplates() []*models.TaskTemplate {
	out := make([]*models.TaskTemplate, 0, len(seedRows))
	for _, row := range seedRows {
		templateID := id.TemplateID(uuid.NewSHA1(seedNamespace, []byte(row.content)))
		t, err := models.NewTaskTemplate(templateID, row.content, row.minLevel, row.targetCount)
		if err != nil {
			panic(fmt.Sprintf("invalid seed template %q: %v", row.content, err))
		}
		out = append(out, t)
	}
	return out
}

// Writer accepts new templates.
type Writer interface {
	Add(ctx context.Context, t *models.TaskTemplate) error
}

// Seed adds the development catalog to w, skipping templates already present.
func Seed(ctx context.Context, w Writer) (int, error) {
	added := 0
	for _, t := range SeedTemplates() {
		err := w.Add(ctx, t)
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			continue
		}
		if err != nil {
			return added, fmt.Errorf("seed catalog: %w", err)
		}
		added++
	}
	return added, nil
}
