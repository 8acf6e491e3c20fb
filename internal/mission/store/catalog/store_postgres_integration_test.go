//go:build integration

package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"finhabit/internal/mission/models"
	"finhabit/internal/mission/store/catalog"
	id "finhabit/pkg/domain"
	"finhabit/pkg/platform/sentinel"
	"finhabit/pkg/testutil/containers"
)

type PostgresCatalogSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *catalog.PostgresStore
	ctx      context.Context
}

func TestPostgresCatalogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCatalogSuite))
}

func (s *PostgresCatalogSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = catalog.NewPostgres(s.postgres.DB)
}

func (s *PostgresCatalogSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "task_templates"))
}

func (s *PostgresCatalogSuite) TestSeedIsIdempotent() {
	added, err := catalog.Seed(s.ctx, s.store)
	s.Require().NoError(err)
	s.Equal(len(catalog.SeedTemplates()), added)

	again, err := catalog.Seed(s.ctx, s.store)
	s.Require().NoError(err)
	s.Zero(again)
}

func (s *PostgresCatalogSuite) TestListEligibleMatchesInMemoryOrder() {
	_, err := catalog.Seed(s.ctx, s.store)
	s.Require().NoError(err)
	memory := catalog.NewInMemory(catalog.SeedTemplates()...)

	for level := 1; level <= 3; level++ {
		fromDB, err := s.store.ListEligible(s.ctx, level)
		s.Require().NoError(err)
		fromMemory, err := memory.ListEligible(s.ctx, level)
		s.Require().NoError(err)
		s.Equal(templateIDs(fromMemory), templateIDs(fromDB), "level %d", level)
		for _, t := range fromDB {
			s.LessOrEqual(t.MinLevel, level)
		}
	}
}

func (s *PostgresCatalogSuite) TestAddDuplicate() {
	t, err := models.NewTaskTemplate(id.NewTemplateID(), "Track coffee spending", 1, 2)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Add(s.ctx, t))
	s.ErrorIs(s.store.Add(s.ctx, t), sentinel.ErrAlreadyUsed)
}

func (s *PostgresCatalogSuite) TestFindByIDsSkipsUnknown() {
	t, err := models.NewTaskTemplate(id.NewTemplateID(), "Round up savings", 2, 1)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Add(s.ctx, t))

	found, err := s.store.FindByIDs(s.ctx, []id.TemplateID{t.ID, id.NewTemplateID()})
	s.Require().NoError(err)
	s.Len(found, 1)
	s.Equal(t.Content, found[t.ID].Content)
}

func templateIDs(templates []*models.TaskTemplate) []id.TemplateID {
	out := make([]id.TemplateID, len(templates))
	for i, t := range templates {
		out[i] = t.ID
	}
	return out
}
